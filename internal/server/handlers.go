package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/analysis"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/report"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/scan"
)

// apiError is the body of every failed request.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Debug("encode response", "status", status, "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, apiError{Code: code, Message: message})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// upload is a parsed export from a multipart request.
type upload struct {
	chat   string
	user   string
	result *parse.Result
}

// readUpload parses the multipart "file" field. It writes the error
// response itself and returns nil on failure.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, endpoint string) *upload {
	fail := func(status int, code, msg string) *upload {
		s.metrics.uploads.WithLabelValues(endpoint, code).Inc()
		s.writeError(w, status, code, msg)
		return nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadMB<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fail(http.StatusRequestEntityTooLarge, "too_large",
				fmt.Sprintf("upload exceeds %d MB", s.cfg.MaxUploadMB))
		}
		return fail(http.StatusBadRequest, "bad_upload", "expected a multipart form with a file field")
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		return fail(http.StatusBadRequest, "bad_upload", "missing file field")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fail(http.StatusBadRequest, "bad_upload", "could not read upload")
	}
	s.metrics.uploadBytes.Observe(float64(len(data)))

	src := &scan.Source{Name: scan.ChatName(hdr.Filename), Path: hdr.Filename, Data: data}
	if strings.EqualFold(filepath.Ext(hdr.Filename), ".zip") {
		src, err = scan.FromZip(hdr.Filename, data)
		if err != nil {
			return fail(http.StatusBadRequest, "bad_upload", err.Error())
		}
	}

	opts := s.cfg.ParseOptions()
	if v := r.FormValue("date_order"); v != "" {
		order, err := parse.ParseDateOrder(v)
		if err != nil {
			return fail(http.StatusBadRequest, "bad_request", err.Error())
		}
		opts.DateOrder = order
	}

	start := time.Now()
	res, err := parse.Parse(bytes.NewReader(src.Data), opts)
	s.metrics.parseDuration.Observe(time.Since(start).Seconds())
	if errors.Is(err, parse.ErrMalformed) {
		return fail(http.StatusUnprocessableEntity, "malformed", err.Error())
	}
	if err != nil {
		return fail(http.StatusBadRequest, "bad_upload", err.Error())
	}
	s.metrics.records.Add(float64(res.Stats.Records))
	s.metrics.dropped.Add(float64(res.Stats.Dropped))

	user := r.FormValue("user")
	if user == "" {
		user = analysis.Overall
	}
	if !knownUser(res.Records, user) {
		return fail(http.StatusBadRequest, "unknown_user", fmt.Sprintf("no messages from %q", user))
	}

	s.log.Debug("upload parsed", "chat", src.Name, "stats", res.Stats.String())
	s.metrics.uploads.WithLabelValues(endpoint, "ok").Inc()
	return &upload{chat: src.Name, user: user, result: res}
}

func knownUser(records []parse.Record, user string) bool {
	for _, u := range analysis.Users(records) {
		if u == user {
			return true
		}
	}
	return false
}

func (s *Server) analyzeUpload(up *upload) *analysis.Report {
	return analysis.Analyze(up.result, analysis.Options{
		Chat:      up.chat,
		User:      up.user,
		TopN:      s.cfg.TopN,
		Stopwords: s.stopwords,
		Scorer:    s.scorer,
	})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	up := s.readUpload(w, r, "analyze")
	if up == nil {
		return
	}
	s.writeJSON(w, http.StatusOK, s.analyzeUpload(up))
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}
	if format != "pdf" && format != "zip" {
		s.writeError(w, http.StatusBadRequest, "bad_format", "format must be pdf or zip")
		return
	}

	up := s.readUpload(w, r, "report")
	if up == nil {
		return
	}
	bundle, err := report.Build(s.analyzeUpload(up))
	if err != nil {
		s.log.Error("build report", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal", "could not build report")
		return
	}

	var buf bytes.Buffer
	contentType := "application/pdf"
	if format == "zip" {
		contentType = "application/zip"
		err = report.WriteZIP(&buf, bundle)
	} else {
		err = report.WritePDF(&buf, bundle)
	}
	if err != nil {
		s.log.Error("write report", "format", format, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal", "could not write report")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-report.%s"`, safeName(up.chat), format))
	w.Header().Set("X-Report-Id", bundle.ID.String())
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// safeName keeps a chat name usable inside a quoted header value.
func safeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == '"' || r == '\\' || r == '/' {
			return '_'
		}
		return r
	}, name)
	if name == "" {
		return "chat"
	}
	return name
}
