package controller

import (
	"aula_virtual_backend/internal/service"
	"aula_virtual_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	Settings *service.SettingsService
	Storage  *service.StorageService
}

func NewSettingsController(settings *service.SettingsService, storage *service.StorageService) *SettingsController {
	return &SettingsController{Settings: settings, Storage: storage}
}

// @Summary Get certificate settings
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.CertificateSettings}
// @Router /admin/certificate-settings [get]
func (c *SettingsController) Get(ctx *gin.Context) {
	settings, err := c.Settings.Get()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, settings)
}

// @Summary Update certificate settings
// @Description Edits the live presentation record; already-issued certificates keep their snapshots
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CertificateSettingsRequest true "Presentation settings"
// @Success 200 {object} util.Response{data=model.CertificateSettings}
// @Router /admin/certificate-settings [put]
func (c *SettingsController) Update(ctx *gin.Context) {
	var req service.CertificateSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	settings, err := c.Settings.Update(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, settings)
}

// @Summary Upload a certificate asset
// @Description Stores a logo, watermark or signature image and returns its URL
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "Image file"
// @Success 201 {object} util.Response
// @Router /admin/certificate-assets [post]
func (c *SettingsController) UploadAsset(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	if err := util.ValidateImageExtension(fileHeader.Filename); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{util.MimeImage})
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if _, err := file.Seek(0, 0); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	url, err := c.Storage.UploadAsset(ctx.Request.Context(), fileHeader.Filename, file, fileHeader.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"url": url})
}
