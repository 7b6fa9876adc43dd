package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"aula_virtual_backend/internal/model"
	"aula_virtual_backend/internal/util"
)

// seedPassedAttempt persists a passing attempt directly, without going
// through the scoring engine.
func seedPassedAttempt(t *testing.T, env *testEnv, quiz *model.Quiz, code string) *model.QuizAttempt {
	t.Helper()

	attempt := &model.QuizAttempt{
		QuizID:           quiz.ID,
		CourseID:         quiz.CourseID,
		FullName:         "Juan López",
		CollegiateNumber: "COL-9000",
		Answers:          []byte(`{}`),
		ScorePercent:     90,
		Passed:           true,
		VerifyCode:       &code,
	}
	if err := env.Attempts.Create(attempt); err != nil {
		t.Fatalf("seed attempt: %v", err)
	}
	return attempt
}

func TestIssueRequiresPassedAttempt(t *testing.T) {
	env := newTestEnv(t)
	quiz := seedQuiz(t, env.DB)

	failed := &model.QuizAttempt{
		QuizID:           quiz.ID,
		CourseID:         quiz.CourseID,
		FullName:         "Juan López",
		CollegiateNumber: "COL-9000",
		Answers:          []byte(`{}`),
		ScorePercent:     50,
		Passed:           false,
	}
	if err := env.Attempts.Create(failed); err != nil {
		t.Fatalf("seed attempt: %v", err)
	}

	if _, err := env.Certificates.Issue(failed); !errors.Is(err, util.ErrAttemptNotPassed) {
		t.Errorf("err = %v, want ErrAttemptNotPassed", err)
	}
	if _, err := env.Certificates.Issue(nil); !errors.Is(err, util.ErrAttemptNotPassed) {
		t.Errorf("err = %v, want ErrAttemptNotPassed", err)
	}
}

func TestIssueFirstFolio(t *testing.T) {
	env := newTestEnv(t)
	quiz := seedQuiz(t, env.DB)
	attempt := seedPassedAttempt(t, env, quiz, "aaaaaaaaaaaaaaaaaaaa")

	cert, err := env.Certificates.Issue(attempt)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if cert.FolioNumber != 1 {
		t.Errorf("folio number = %d, want 1", cert.FolioNumber)
	}
	if cert.FolioCode != "CPG-AV-000001" {
		t.Errorf("folio code = %q, want CPG-AV-000001", cert.FolioCode)
	}
	if cert.VerifyCode != *attempt.VerifyCode {
		t.Errorf("verify code = %q, want %q", cert.VerifyCode, *attempt.VerifyCode)
	}
	if cert.CourseTitle != "Ética profesional" || cert.DurationSeconds != 8100 {
		t.Errorf("denormalized course fields wrong: %q %d", cert.CourseTitle, cert.DurationSeconds)
	}
	if cert.IssuedAt.IsZero() {
		t.Error("issuedAt not stamped")
	}
}

func TestIssueIdempotent(t *testing.T) {
	env := newTestEnv(t)
	quiz := seedQuiz(t, env.DB)
	attempt := seedPassedAttempt(t, env, quiz, "bbbbbbbbbbbbbbbbbbbb")

	first, err := env.Certificates.Issue(attempt)
	if err != nil {
		t.Fatalf("first Issue: %v", err)
	}
	second, err := env.Certificates.Issue(attempt)
	if err != nil {
		t.Fatalf("second Issue: %v", err)
	}

	if first.ID != second.ID || first.FolioNumber != second.FolioNumber {
		t.Errorf("repeat issuance returned a different certificate: %v vs %v", first.ID, second.ID)
	}

	var count int64
	env.DB.Model(&model.Certificate{}).Count(&count)
	if count != 1 {
		t.Errorf("certificate count = %d, want 1", count)
	}

	// the repeat must not burn a folio number
	var counter model.FolioCounter
	env.DB.First(&counter, 1)
	if counter.NextNumber != 2 {
		t.Errorf("next folio = %d, want 2", counter.NextNumber)
	}
}

func TestIssueSequentialFolios(t *testing.T) {
	env := newTestEnv(t)
	quiz := seedQuiz(t, env.DB)

	for i := 1; i <= 3; i++ {
		attempt := seedPassedAttempt(t, env, quiz, fmt.Sprintf("code%016d", i))
		cert, err := env.Certificates.Issue(attempt)
		if err != nil {
			t.Fatalf("Issue %d: %v", i, err)
		}
		if cert.FolioNumber != int64(i) {
			t.Errorf("folio number = %d, want %d", cert.FolioNumber, i)
		}
		want := fmt.Sprintf("CPG-AV-%06d", i)
		if cert.FolioCode != want {
			t.Errorf("folio code = %q, want %q", cert.FolioCode, want)
		}
	}
}

func TestIssueConcurrentDistinctFolios(t *testing.T) {
	env := newTestEnv(t)
	quiz := seedQuiz(t, env.DB)

	const n = 50
	attempts := make([]*model.QuizAttempt, n)
	for i := 0; i < n; i++ {
		attempts[i] = seedPassedAttempt(t, env, quiz, fmt.Sprintf("conc%016d", i))
	}

	var wg sync.WaitGroup
	folios := make([]int64, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cert, err := env.Certificates.Issue(attempts[i])
			if err != nil {
				errs[i] = err
				return
			}
			folios[i] = cert.FolioNumber
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("Issue %d: %v", i, errs[i])
		}
		if folios[i] < 1 || folios[i] > n {
			t.Errorf("folio %d out of range [1,%d]", folios[i], n)
		}
		if seen[folios[i]] {
			t.Errorf("folio %d allocated twice", folios[i])
		}
		seen[folios[i]] = true
	}

	var counter model.FolioCounter
	env.DB.First(&counter, 1)
	if counter.NextNumber != n+1 {
		t.Errorf("next folio = %d, want %d", counter.NextNumber, n+1)
	}
}

func TestIssueConcurrentSameAttempt(t *testing.T) {
	env := newTestEnv(t)
	quiz := seedQuiz(t, env.DB)
	attempt := seedPassedAttempt(t, env, quiz, "cccccccccccccccccccc")

	const n = 10
	var wg sync.WaitGroup
	certs := make([]*model.Certificate, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			certs[i], errs[i] = env.Certificates.Issue(attempt)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("Issue %d: %v", i, errs[i])
		}
		if certs[i].FolioNumber != certs[0].FolioNumber {
			t.Errorf("racing issuances got different folios: %d vs %d",
				certs[i].FolioNumber, certs[0].FolioNumber)
		}
	}

	var count int64
	env.DB.Model(&model.Certificate{}).Count(&count)
	if count != 1 {
		t.Errorf("certificate count = %d, want 1", count)
	}
}

func TestIssueSnapshotFrozenAcrossSettingsEdit(t *testing.T) {
	env := newTestEnv(t)
	quiz := seedQuiz(t, env.DB)
	attempt := seedPassedAttempt(t, env, quiz, "dddddddddddddddddddd")

	cert, err := env.Certificates.Issue(attempt)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = env.Settings.Update(CertificateSettingsRequest{
		InstitutionName: "Otra Institución",
		HeaderLine:      "Encabezado nuevo",
	})
	if err != nil {
		t.Fatalf("Update settings: %v", err)
	}

	reloaded, err := env.Certs.FindByAttemptID(env.DB, attempt.ID)
	if err != nil {
		t.Fatalf("reload certificate: %v", err)
	}
	var snapshot model.SettingsSnapshot
	if err := json.Unmarshal(reloaded.SettingsSnapshot, &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snapshot.InstitutionName != "Colegio de Psicólogos de Guatemala" {
		t.Errorf("snapshot mutated by settings edit: %q", snapshot.InstitutionName)
	}
	if len(snapshot.Signers) != 2 {
		t.Errorf("snapshot signers = %d, want 2", len(snapshot.Signers))
	}

	// a later issuance picks up the new settings
	next := seedPassedAttempt(t, env, quiz, "eeeeeeeeeeeeeeeeeeee")
	nextCert, err := env.Certificates.Issue(next)
	if err != nil {
		t.Fatalf("second Issue: %v", err)
	}
	if err := json.Unmarshal(nextCert.SettingsSnapshot, &snapshot); err != nil {
		t.Fatalf("decode second snapshot: %v", err)
	}
	if snapshot.InstitutionName != "Otra Institución" {
		t.Errorf("second snapshot = %q, want updated settings", snapshot.InstitutionName)
	}
	_ = cert
}

func TestSetFolioPrefixAffectsNewIssuesOnly(t *testing.T) {
	env := newTestEnv(t)
	quiz := seedQuiz(t, env.DB)

	before := seedPassedAttempt(t, env, quiz, "ffffffffffffffffffff")
	certBefore, err := env.Certificates.Issue(before)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	env.Certificates.SetFolioPrefix("CPG-NEW")

	after := seedPassedAttempt(t, env, quiz, "1111111111eeeeeeeeee")
	certAfter, err := env.Certificates.Issue(after)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if certBefore.FolioCode != "CPG-AV-000001" {
		t.Errorf("pre-reload folio = %q", certBefore.FolioCode)
	}
	if certAfter.FolioCode != "CPG-NEW-000002" {
		t.Errorf("post-reload folio = %q, want CPG-NEW-000002", certAfter.FolioCode)
	}

	// empty prefix is ignored, not applied
	env.Certificates.SetFolioPrefix("")
	if got := env.Certificates.folioCode(3); got != "CPG-NEW-000003" {
		t.Errorf("folio after empty prefix = %q", got)
	}
}

func TestListIssuedPagination(t *testing.T) {
	env := newTestEnv(t)
	quiz := seedQuiz(t, env.DB)

	for i := 1; i <= 5; i++ {
		attempt := seedPassedAttempt(t, env, quiz, fmt.Sprintf("list%016d", i))
		if _, err := env.Certificates.Issue(attempt); err != nil {
			t.Fatalf("Issue %d: %v", i, err)
		}
	}

	page, total, err := env.Certificates.ListIssued(1, 2)
	if err != nil {
		t.Fatalf("ListIssued: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	// newest folio first
	if page[0].FolioNumber != 5 || page[1].FolioNumber != 4 {
		t.Errorf("page order = %d, %d, want 5, 4", page[0].FolioNumber, page[1].FolioNumber)
	}

	// out-of-range inputs are normalized
	page, _, err = env.Certificates.ListIssued(0, 0)
	if err != nil {
		t.Fatalf("ListIssued: %v", err)
	}
	if len(page) != 5 {
		t.Errorf("normalized page size = %d, want 5", len(page))
	}
}
