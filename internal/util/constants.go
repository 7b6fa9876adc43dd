package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeImage = "image/"
)

var (
	// Certificate assets are images only (logo, watermark, signatures).
	AllowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".svg"}
)
