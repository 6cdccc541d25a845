package services

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

const MsgUnreadablePDF = "The PDF could not be read. Try another file or paste the text."

type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

// PDFText is the plain text extracted from an uploaded document.
type PDFText struct {
	Text  string
	Pages int
}

// ExtractText reads a PDF from memory and returns its cleaned plain text.
// Unreadable documents are reported as invalid input.
func (s *PDFService) ExtractText(data []byte) (result *PDFText, err error) {
	if len(data) == 0 {
		return nil, invalidInput(MsgUnreadablePDF)
	}
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, invalidInput(MsgUnreadablePDF)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &InputError{Message: MsgUnreadablePDF, Err: fmt.Errorf("open pdf: %w", err)}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, &InputError{Message: MsgUnreadablePDF, Err: fmt.Errorf("extract pdf text: %w", err)}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return nil, &InputError{Message: MsgUnreadablePDF, Err: fmt.Errorf("read pdf text: %w", err)}
	}

	return &PDFText{Text: CleanText(buf.String()), Pages: reader.NumPage()}, nil
}
