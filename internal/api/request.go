package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"study-buddy/internal/models"
	"study-buddy/internal/services"
)

const (
	maxMultipartMemory = 8 << 20 // 8 MB
	maxJSONBody        = 1 << 20
	// multipartOverhead covers the form fields sent next to the PDF.
	multipartOverhead = 1 << 20

	MsgPDFTooLarge = "The PDF is too large."
)

// generateInput is the JSON form of a generation request. count may be a
// number or a string.
type generateInput struct {
	Mode  string `json:"mode"`
	Count any    `json:"count"`
	Text  string `json:"text"`
}

// errTooLarge marks a request body over its size ceiling.
var errTooLarge = errors.New("request body too large")

// parseGenerateRequest reads a multipart or JSON generation request and
// applies count clamping, text cleaning, and PDF extraction. An
// unrecognised mode passes through so the generator rejects and records it.
func (s *Server) parseGenerateRequest(w http.ResponseWriter, r *http.Request) (services.GenerateRequest, error) {
	var (
		in      generateInput
		pdfData []byte
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, s.maxPDFBytes+multipartOverhead)
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			if isTooLarge(err) {
				return services.GenerateRequest{}, errTooLarge
			}
			return services.GenerateRequest{}, &services.InputError{Message: "invalid multipart form", Err: err}
		}
		defer r.MultipartForm.RemoveAll()

		in.Mode = r.FormValue("mode")
		in.Count = r.FormValue("count")
		in.Text = r.FormValue("text")

		data, err := readPDF(r, s.maxPDFBytes)
		if err != nil {
			return services.GenerateRequest{}, err
		}
		pdfData = data
	default:
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			if isTooLarge(err) {
				return services.GenerateRequest{}, errTooLarge
			}
			return services.GenerateRequest{}, &services.InputError{Message: "invalid JSON body", Err: err}
		}
	}

	mode, ok := models.ParseMode(in.Mode)
	if !ok {
		mode = models.Mode(in.Mode)
	}
	text := services.CleanText(in.Text)
	if pdfData != nil {
		extracted, err := s.pdf.ExtractText(pdfData)
		if err != nil {
			return services.GenerateRequest{}, err
		}
		s.log.Debug("pdf extracted", "pages", extracted.Pages, "chars", len([]rune(extracted.Text)))
		text = extracted.Text
	}

	return services.GenerateRequest{
		Mode:         mode,
		Count:        services.ClampCount(countString(in.Count)),
		MaterialText: services.TruncateForGeneration(text, services.MaxGenerationChars),
	}, nil
}

// readPDF returns the optional "pdf" upload, or nil when none was sent.
func readPDF(r *http.Request, limit int64) ([]byte, error) {
	file, header, err := r.FormFile("pdf")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, &services.InputError{Message: "invalid pdf upload", Err: err}
	}
	defer file.Close()

	if header.Size > limit {
		return nil, &services.InputError{Message: MsgPDFTooLarge}
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read pdf upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, &services.InputError{Message: MsgPDFTooLarge}
	}
	return data, nil
}

func countString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
