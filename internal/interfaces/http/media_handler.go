package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Catalogo-api/internal/application/media"
	"github.com/jhoicas/Catalogo-api/internal/domain"
)

// MediaHandler maneja la subida de archivos y los lotes secuenciales.
type MediaHandler struct {
	uc      *media.UseCase
	batches *media.BatchService
}

// NewMediaHandler construye el handler.
func NewMediaHandler(uc *media.UseCase, batches *media.BatchService) *MediaHandler {
	return &MediaHandler{uc: uc, batches: batches}
}

// Upload godoc
// @Summary      Subir archivo
// @Description  Imágenes, videos, PDF o CSV hasta el tamaño máximo configurado.
// @Tags         media
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo"
// @Success      201   {object}  dto.MediaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/media [post]
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.NewValidationError("file", "es requerido")
	}
	in, err := h.readFile(fh)
	if err != nil {
		return err
	}
	out, err := h.uc.Upload(c.UserContext(), in, GetUserID(c), nil)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar archivos
// @Tags         media
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.MediaListResponse
// @Router       /api/media [get]
func (h *MediaHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar archivo
// @Tags         media
// @Security     Bearer
// @Param        id   path  string  true  "ID del archivo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/media/{id} [delete]
func (h *MediaHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateBatch godoc
// @Summary      Subir lote de archivos
// @Description  Los archivos se suben uno a uno en segundo plano; el avance se consulta con GET /api/media/batches/{id}.
// @Description  Con wait=true la respuesta espera a que termine el lote.
// @Tags         media
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        files  formData  file  true   "Archivos (campo repetido)"
// @Param        wait   query     bool  false  "Esperar a que termine"
// @Success      202    {object}  dto.BatchResponse
// @Success      200    {object}  dto.BatchResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/media/batches [post]
func (h *MediaHandler) CreateBatch(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return domain.NewValidationError("files", "se esperaba multipart/form-data")
	}
	headers := form.File["files"]
	if len(headers) > media.MaxBatchFiles {
		return domain.NewValidationError("files", fmt.Sprintf("máximo %d archivos por lote", media.MaxBatchFiles))
	}
	files := make([]media.FileInput, 0, len(headers))
	for _, fh := range headers {
		in, err := h.readFile(fh)
		if err != nil {
			return err
		}
		files = append(files, in)
	}

	if c.QueryBool("wait", false) {
		b, err := h.batches.Create(files, GetUserID(c))
		if err != nil {
			return err
		}
		h.batches.Process(c.UserContext(), b)
		return c.JSON(b.Snapshot())
	}
	out, err := h.batches.Start(c.UserContext(), files, GetUserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(out)
}

// GetBatch godoc
// @Summary      Estado de un lote
// @Tags         media
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/media/batches/{id} [get]
func (h *MediaHandler) GetBatch(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.batches.Get(id, batchActor(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RetryBatchFile godoc
// @Summary      Reintentar archivo fallido de un lote
// @Tags         media
// @Security     Bearer
// @Produce      json
// @Param        id     path  string  true  "ID del lote"
// @Param        index  path  int     true  "Índice del archivo"
// @Success      200    {object}  dto.BatchResponse
// @Failure      409    {object}  dto.ErrorResponse
// @Router       /api/media/batches/{id}/retry/{index} [post]
func (h *MediaHandler) RetryBatchFile(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return domain.NewValidationError("index", "debe ser un entero")
	}
	out, err := h.batches.Retry(c.UserContext(), id, index, batchActor(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func batchActor(c *fiber.Ctx) media.Actor {
	return media.Actor{UserID: GetUserID(c), Admin: GetRole(c) == RoleAdmin}
}

// readFile copia el archivo a memoria: Fiber libera los temporales al terminar la petición
// y los lotes necesitan los datos para reintentar.
func (h *MediaHandler) readFile(fh *multipart.FileHeader) (media.FileInput, error) {
	if fh.Size > h.uc.MaxBytes() {
		return media.FileInput{}, domain.NewValidationError("file",
			fmt.Sprintf("%s supera el máximo de %d bytes", fh.Filename, h.uc.MaxBytes()))
	}
	f, err := fh.Open()
	if err != nil {
		return media.FileInput{}, fmt.Errorf("abrir %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.uc.MaxBytes()+1))
	if err != nil {
		return media.FileInput{}, fmt.Errorf("leer %s: %w", fh.Filename, err)
	}
	return media.FileInput{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}
