package server

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxUploadSize 는 이미지 업로드 한도다.
const MaxUploadSize = 5 << 20 // 5MB

// UploadHandler 는 멀티파트 이미지 업로드를 담당한다.
// 파일명은 무작위 uuid 로 바꿔 저장하고 상대 경로를 돌려준다.
type UploadHandler struct {
	dir string
}

func NewUploadHandler(dir string) *UploadHandler {
	return &UploadHandler{dir: dir}
}

// sniffContentType 은 파일 앞 512바이트로 실제 미디어 타입을 판별한다.
func sniffContentType(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer func() {
		_ = src.Close()
	}()
	buf := make([]byte, 512)
	n, err := src.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

func (h *UploadHandler) Image(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize+1024)
	file, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, "image file is required")
		return
	}
	if file.Size > MaxUploadSize {
		fail(c, http.StatusBadRequest, "file larger than 5MB")
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		fail(c, http.StatusBadRequest, "only image uploads are allowed")
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		fail(c, http.StatusBadRequest, "unsupported image extension")
		return
	}
	// 선언된 헤더는 믿지 않는다. 앞부분 바이트를 직접 스니핑한다.
	sniffed, err := sniffContentType(file)
	if err != nil {
		log.Error().Err(err).Str("file", file.Filename).Msg("sniff upload")
		fail(c, http.StatusInternalServerError, "upload failed")
		return
	}
	if !strings.HasPrefix(sniffed, "image/") {
		fail(c, http.StatusBadRequest, "file content is not an image")
		return
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", h.dir).Msg("create upload dir")
		fail(c, http.StatusInternalServerError, "upload failed")
		return
	}
	name := uuid.NewString() + ext
	dst := filepath.Join(h.dir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		log.Error().Err(err).Str("dst", dst).Msg("save upload")
		fail(c, http.StatusInternalServerError, "upload failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": "/uploads/" + name})
}
