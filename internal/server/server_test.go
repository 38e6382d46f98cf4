package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mfish-station/invoice-ocr/internal/fields"
	"github.com/mfish-station/invoice-ocr/internal/segment"
)

// stubProcessor scripts the pipeline behind the HTTP layer.
type stubProcessor struct {
	report  string
	records []fields.Record
	err     error
	gotPath string
}

func (p *stubProcessor) Process(_ context.Context, pdfPath string) (string, []fields.Record, error) {
	p.gotPath = pdfPath
	return p.report, p.records, p.err
}

func multipartBody(field, filename string, content []byte) (*bytes.Buffer, string) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile(field, filename)
	Expect(err).NotTo(HaveOccurred())
	_, err = fw.Write(content)
	Expect(err).NotTo(HaveOccurred())
	Expect(mw.Close()).To(Succeed())
	return body, mw.FormDataContentType()
}

var _ = Describe("Server", func() {
	var (
		proc *stubProcessor
		srv  *Server
	)

	BeforeEach(func() {
		proc = &stubProcessor{report: "/tmp/reports/ocr_report_1.xlsx"}
		srv = New(Config{
			UploadDir:      filepath.Join(GinkgoT().TempDir(), "uploads"),
			ReportsDir:     GinkgoT().TempDir(),
			MaxUploadBytes: 1 << 20,
		}, proc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	post := func(body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/ocr/upload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		srv.Router().ServeHTTP(rr, req)
		return rr
	}

	It("reports health", func() {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rr := httptest.NewRecorder()
		srv.Router().ServeHTTP(rr, req)
		Expect(rr.Code).To(Equal(http.StatusOK))
	})

	Describe("upload", func() {
		It("processes a PDF and returns the records and report name", func() {
			proc.records = []fields.Record{{SourceID: "page_1.png_block0.png", InvoiceNumber: "KF-26523895"}}

			body, ct := multipartBody("file", "invoices.pdf", []byte("%PDF-1.4"))
			rr := post(body, ct)
			Expect(rr.Code).To(Equal(http.StatusOK))

			var resp struct {
				Success bool            `json:"success"`
				Count   int             `json:"count"`
				Records []fields.Record `json:"records"`
				Report  string          `json:"report"`
			}
			Expect(json.Unmarshal(rr.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Success).To(BeTrue())
			Expect(resp.Count).To(Equal(1))
			Expect(resp.Records[0].InvoiceNumber).To(Equal("KF-26523895"))
			Expect(resp.Report).To(Equal("ocr_report_1.xlsx"))
		})

		It("removes the stored upload once processing ends", func() {
			body, ct := multipartBody("file", "invoices.pdf", []byte("%PDF-1.4"))
			Expect(post(body, ct).Code).To(Equal(http.StatusOK))
			Expect(proc.gotPath).NotTo(BeEmpty())
			Expect(proc.gotPath).NotTo(BeAnExistingFile())
		})

		It("rejects a request without a file field", func() {
			body, ct := multipartBody("other", "invoices.pdf", []byte("%PDF-1.4"))
			Expect(post(body, ct).Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects non-PDF uploads", func() {
			body, ct := multipartBody("file", "invoices.xlsx", []byte("zzzz"))
			Expect(post(body, ct).Code).To(Equal(http.StatusBadRequest))
		})

		It("answers 422 when the PDF cannot be segmented", func() {
			proc.err = &segment.SegmentationError{Path: "x.pdf", Err: errors.New("not a pdf")}
			body, ct := multipartBody("file", "broken.pdf", []byte("junk"))
			Expect(post(body, ct).Code).To(Equal(http.StatusUnprocessableEntity))
		})

		It("answers 500 on other pipeline failures", func() {
			proc.err = errors.New("disk full")
			body, ct := multipartBody("file", "invoices.pdf", []byte("%PDF-1.4"))
			Expect(post(body, ct).Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("report download", func() {
		It("serves an existing report as an attachment", func() {
			name := "ocr_report_7.xlsx"
			Expect(os.WriteFile(filepath.Join(srv.cfg.ReportsDir, name), []byte("wb"), 0o644)).To(Succeed())

			req := httptest.NewRequest(http.MethodGet, "/api/ocr/reports/"+name, nil)
			rr := httptest.NewRecorder()
			srv.Router().ServeHTTP(rr, req)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Header().Get("Content-Disposition")).To(ContainSubstring(name))
		})

		It("answers 404 for an unknown report", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/ocr/reports/nope.xlsx", nil)
			rr := httptest.NewRecorder()
			srv.Router().ServeHTTP(rr, req)
			Expect(rr.Code).To(Equal(http.StatusNotFound))
		})
	})
})
