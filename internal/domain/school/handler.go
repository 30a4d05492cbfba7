package school

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"schoolhub/internal/filestore"
	"schoolhub/internal/pkg/response"
)

const (
	// MaxRequestBody caps a multipart request: one image plus the text fields.
	MaxRequestBody  = filestore.MaxFileSize + 1<<20
	multipartMemory = 4 << 20
	imageFormField  = FieldImage
)

// Handler handles school HTTP requests
type Handler struct {
	service *Service
	events  *Hub
}

// NewHandler creates school handler. events may be nil to disable the change feed.
func NewHandler(service *Service, events *Hub) *Handler {
	return &Handler{service: service, events: events}
}

// Create handles POST /api/schools/add
// @Summary Add a school
// @Tags Schools
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param email_id formData string true "Email"
// @Param contact formData string false "10 digit contact number"
// @Param image formData file false "jpeg/png/webp, max 2 MiB"
// @Success 201 {object} map[string]interface{}
// @Failure 400,500 {object} map[string]interface{}
// @Router /schools/add [post]
func (h *Handler) Create(c *gin.Context) {
	fields, image, err := readRequest(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	school, err := h.service.Create(c.Request.Context(), CreateInputFromFields(fields), image)
	if err != nil {
		writeError(c, "Validation or save error", err)
		return
	}

	response.Message(c, http.StatusCreated, "School added", "school", school)
}

// List handles GET /api/schools
// @Summary List schools, newest first
// @Tags Schools
// @Produce json
// @Success 200 {array} School
// @Failure 500 {object} map[string]interface{}
// @Router /schools [get]
func (h *Handler) List(c *gin.Context) {
	schools, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, "Server error", err)
		return
	}
	c.JSON(http.StatusOK, schools)
}

// Get handles GET /api/schools/:id
func (h *Handler) Get(c *gin.Context) {
	school, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "Server error", err)
		return
	}
	c.JSON(http.StatusOK, school)
}

// Update handles PUT /api/schools/:id
// @Summary Update a school
// @Description Only the fields present in the request change. A new image replaces and deletes the old one.
// @Tags Schools
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "School ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400,404,500 {object} map[string]interface{}
// @Router /schools/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	fields, image, err := readRequest(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	school, err := h.service.Update(c.Request.Context(), c.Param("id"), UpdateInputFromFields(fields), image)
	if err != nil {
		writeError(c, "Error updating school", err)
		return
	}

	response.Message(c, http.StatusOK, "School updated", "school", school)
}

// Delete handles DELETE /api/schools/:id
// @Summary Delete a school and its image
// @Tags Schools
// @Produce json
// @Param id path string true "School ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404,500 {object} map[string]interface{}
// @Router /schools/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "Error deleting school", err)
		return
	}
	response.Message(c, http.StatusOK, "School deleted successfully", "id", id)
}

func writeError(c *gin.Context, fallback string, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "Validation failed: "+verr.Error(), verr, verr.Fields)
	case filestore.IsRejected(err):
		response.Error(c, http.StatusBadRequest, "Invalid image: "+rejectionMessage(err), err)
	case errors.Is(err, ErrSchoolNotFound):
		response.Error(c, http.StatusNotFound, "School not found", nil)
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, fallback, err)
	}
}

func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, filestore.ErrFileTooLarge):
		return fmt.Sprintf("file exceeds %d MiB", filestore.MaxFileSize>>20)
	case errors.Is(err, filestore.ErrInvalidMimeType):
		return "only jpeg, png and webp images are allowed"
	default:
		return "file is empty"
	}
}

// readRequest extracts the text fields that are present and the optional image part.
// JSON bodies are accepted for text-only requests.
func readRequest(c *gin.Context) (map[string]string, *multipart.FileHeader, error) {
	fields := make(map[string]string)

	if c.ContentType() == binding.MIMEJSON {
		var raw map[string]any
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		for _, k := range FieldKeys {
			v, ok := raw[k]
			if !ok {
				continue
			}
			switch v := v.(type) {
			case nil:
				fields[k] = ""
			case string:
				fields[k] = v
			default:
				fields[k] = fmt.Sprint(v)
			}
		}
		return fields, nil, nil
	}

	// ParseMultipartForm also parses url-encoded bodies before reporting ErrNotMultipart.
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, err
	}
	for _, k := range FieldKeys {
		if vs, ok := c.Request.PostForm[k]; ok && len(vs) > 0 {
			fields[k] = vs[0]
		}
	}

	var image *multipart.FileHeader
	if form := c.Request.MultipartForm; form != nil {
		if files := form.File[imageFormField]; len(files) > 0 {
			image = files[0]
		}
	}
	return fields, image, nil
}

// limitBody caps the request body before any parsing happens.
func limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxRequestBody)
	c.Next()
}
