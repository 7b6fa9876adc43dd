package controller

import (
	"aula_virtual_backend/internal/service"
	"aula_virtual_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	Verification *service.VerificationService
	Certificates *service.CertificateService
}

func NewCertificateController(verification *service.VerificationService, certificates *service.CertificateService) *CertificateController {
	return &CertificateController{
		Verification: verification,
		Certificates: certificates,
	}
}

// @Summary Fetch a certificate by attempt
// @Description Full certificate view for the attempt's owner or an administrator
// @Tags certificates
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path string true "Attempt ID"
// @Success 200 {object} util.Response{data=service.CertificateView}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /certificates/{attemptId} [get]
func (c *CertificateController) GetByAttempt(ctx *gin.Context) {
	principal := util.GetUserFromContext(ctx)
	if principal == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.Verification.ResolveByAttempt(principal, ctx.Param("attemptId"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary Verify a certificate publicly
// @Description Minimal certificate view by opaque verify code; no authentication
// @Tags certificates
// @Produce json
// @Param code path string true "Verify code"
// @Success 200 {object} util.Response{data=service.PublicCertificateView}
// @Failure 404 {object} util.Response
// @Router /public/certificates/{code} [get]
func (c *CertificateController) GetByVerifyCode(ctx *gin.Context) {
	view, err := c.Verification.ResolveByCode(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary List my attempts
// @Description The authenticated learner's own attempt history with folio codes
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response
// @Router /my/attempts [get]
func (c *CertificateController) MyAttempts(ctx *gin.Context) {
	principal := util.GetUserFromContext(ctx)
	if principal == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	attempts, total, err := c.Verification.ListMyAttempts(principal, page, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"list":  attempts,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// @Summary List issued certificates
// @Description Issuance ledger listing, newest folio first
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response
// @Router /admin/certificates [get]
func (c *CertificateController) ListIssued(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	certs, total, err := c.Certificates.ListIssued(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"list":  certs,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
