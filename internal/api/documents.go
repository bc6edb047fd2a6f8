package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/agentboard/agentboard/internal/extract"
	"github.com/agentboard/agentboard/internal/storage"
)

const maxUploadSize = 50 << 20 // 50MB

const previewLength = 300

func (s *Server) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		http.Error(w, "document storage not configured", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "file too large (max 50MB)", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Buffer body to allow reading twice (save + extract)
	body, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read file", http.StatusInternalServerError)
		return
	}

	info, err := s.storage.Save(r.Context(), header.Filename, contentType, bytes.NewReader(body))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Best-effort text extraction; never fail the upload
	if extracted, _ := extract.Extract(contentType, bytes.NewReader(body)); extracted != "" {
		info.ExtractedText = extracted
		info.PreviewText = extract.Preview(extracted, previewLength)
		_ = s.storage.UpdateInfo(r.Context(), info)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  fmt.Sprintf("Document %s uploaded successfully", header.Filename),
		"document": info,
	})
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		http.Error(w, "document storage not configured", http.StatusServiceUnavailable)
		return
	}

	files, err := s.storage.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if files == nil {
		files = []storage.FileInfo{}
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *Server) serveDocument(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		http.Error(w, "document storage not configured", http.StatusServiceUnavailable)
		return
	}
	id := chi.URLParam(r, "id")
	info, rc, err := s.storage.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
		} else {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}
	defer rc.Close()

	escaped := strings.ReplaceAll(info.Filename, `"`, `\"`)
	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, escaped))
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("serveDocument: copy interrupted", "id", id, "err", err)
	}
}

const (
	chunkSize    = 1000
	chunkOverlap = 200
)

// documentChunks splits a document's extracted text into overlapping
// pieces sized for embedding or indexing.
func (s *Server) documentChunks(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		http.Error(w, "document storage not configured", http.StatusServiceUnavailable)
		return
	}
	id := chi.URLParam(r, "id")
	info, rc, err := s.storage.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
		} else {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}
	rc.Close()

	chunks := extract.Chunk(info.ExtractedText, chunkSize, chunkOverlap)
	if chunks == nil {
		chunks = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id": info.ID,
		"chunks":      chunks,
		"count":       len(chunks),
	})
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		http.Error(w, "document storage not configured", http.StatusServiceUnavailable)
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.storage.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
		} else {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
