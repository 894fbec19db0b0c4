package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-store-api/internal/files"
	"github.com/BuzzLyutic/task-store-api/pkg/respond"
)

type FileHandler struct {
	store    *files.Store
	maxBytes int64
	logger   *zap.Logger
}

func NewFileHandler(store *files.Store, maxBytes int64, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		store:    store,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(w, r, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		respond.Error(w, r, http.StatusUnprocessableEntity, "file is required")
		return
	}
	defer file.Close()

	name, err := h.store.Save(header.Filename, file)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, files.ErrInvalidName):
			respond.Error(w, r, http.StatusUnprocessableEntity, err.Error())
		case errors.As(err, &tooLarge):
			respond.Error(w, r, http.StatusRequestEntityTooLarge, "file too large")
		default:
			h.logger.Error("failed to store upload", zap.String("filename", header.Filename), zap.Error(err))
			respond.Error(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	h.logger.Info("file uploaded", zap.String("filename", name), zap.Int64("size", header.Size))
	respond.JSON(w, r, http.StatusOK, map[string]string{"filename": name})
}

func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	f, info, err := h.store.Open(chi.URLParam(r, "filename"))
	if err != nil {
		if errors.Is(err, files.ErrNotFound) || errors.Is(err, files.ErrInvalidName) {
			respond.Error(w, r, http.StatusNotFound, "File not found")
			return
		}
		h.logger.Error("failed to open file", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	defer f.Close()

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
