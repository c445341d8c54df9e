package xlsxtemplate

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-formkit/pkg/action"
)

const sampleColumns = `[{"defaultTitle":"Name"},{"defaultTitle":"Age"}]`

func readRows(t *testing.T, body []byte) (string, [][]string) {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()
	sheets := f.GetSheetList()
	if len(sheets) != 1 {
		t.Fatalf("expected one sheet, got %v", sheets)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	return sheets[0], rows
}

func TestDownload_QueryParams(t *testing.T) {
	q := url.Values{}
	q.Set("columns", sampleColumns)
	q.Set("explain", "Sample")
	q.Set("title", "Template")
	req := httptest.NewRequest(http.MethodGet, "/api/importer:downloadXlsxTemplate?"+q.Encode(), nil)
	rec := httptest.NewRecorder()

	if err := New().Download(rec, req); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=Template.xlsx" {
		t.Fatalf("unexpected disposition %q", cd)
	}

	sheet, rows := readRows(t, rec.Body.Bytes())
	if sheet != "Template" {
		t.Fatalf("unexpected sheet %q", sheet)
	}
	if diff := cmp.Diff([][]string{{"Name", "Age"}, {"Sample"}}, rows); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestDownload_JSONBodyWithColumnArray(t *testing.T) {
	body := `{"columns":[{"defaultTitle":"编号"},{"defaultTitle":"名称"}],"explain":"说明","title":"导入模板"}`
	req := httptest.NewRequest(http.MethodPost, "/api/importer:downloadXlsxTemplate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	if err := New().Download(rec, req); err != nil {
		t.Fatalf("Download: %v", err)
	}
	want := "attachment; filename=%E5%AF%BC%E5%85%A5%E6%A8%A1%E6%9D%BF.xlsx"
	if cd := rec.Header().Get("Content-Disposition"); cd != want {
		t.Fatalf("unexpected disposition %q", cd)
	}
	sheet, rows := readRows(t, rec.Body.Bytes())
	if sheet != "导入模板" {
		t.Fatalf("unexpected sheet %q", sheet)
	}
	if diff := cmp.Diff([][]string{{"编号", "名称"}, {"说明"}}, rows); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestDownload_FormBodyOverridesQuery(t *testing.T) {
	form := url.Values{}
	form.Set("columns", `[{"defaultTitle":"Email"}]`)
	form.Set("title", "Users")
	form.Set("explain", "One user per row")
	req := httptest.NewRequest(http.MethodPost, "/x?title=Ignored", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	if err := New().Download(rec, req); err != nil {
		t.Fatalf("Download: %v", err)
	}
	sheet, rows := readRows(t, rec.Body.Bytes())
	if sheet != "Users" || rows[0][0] != "Email" {
		t.Fatalf("unexpected workbook %q %v", sheet, rows)
	}
}

func TestDownload_MalformedColumns(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?columns=%5Bnot-json", nil)
	err := New().Download(httptest.NewRecorder(), req)
	if action.StatusCode(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestRegister_MountsOnRegistry(t *testing.T) {
	reg := action.NewRegistry()
	if err := New(WithPolicy(action.PolicyPublic)).Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	mux := http.NewServeMux()
	if _, err := reg.Mount(mux, "/api"); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	q := url.Values{"columns": {sampleColumns}, "title": {"Template"}}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/importer:downloadXlsxTemplate?"+q.Encode(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSheetNameAndFileName(t *testing.T) {
	cases := map[string]string{
		"":                             "Sheet1",
		"Q1/Q2 [draft]":                "Q1_Q2 _draft_",
		"'quoted'":                     "quoted",
		strings.Repeat("a", 40):        strings.Repeat("a", 31),
		strings.Repeat("a", 30) + "'b": strings.Repeat("a", 30),
	}
	for in, want := range cases {
		if got := SheetName(in); got != want {
			t.Fatalf("SheetName(%q) = %q, want %q", in, got, want)
		}
		var buf bytes.Buffer
		if err := Write(&buf, Params{Title: in}); err != nil {
			t.Fatalf("Write(title %q): %v", in, err)
		}
	}
	if got := FileName(""); got != "Sheet1.xlsx" {
		t.Fatalf("unexpected default file name %q", got)
	}
	if got := FileName("a b/c"); got != "a%20b/c.xlsx" {
		t.Fatalf("unexpected encoded file name %q", got)
	}
}
