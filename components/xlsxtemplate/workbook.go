package xlsxtemplate

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const DefaultSheet = "Sheet1"

// SheetName turns title into a valid worksheet name: characters Excel
// rejects become "_", the result is cut to excelize.MaxSheetNameLength runes
// and surrounding quotes are dropped.
func SheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	if utf8.RuneCountInString(name) > excelize.MaxSheetNameLength {
		name = string([]rune(name)[:excelize.MaxSheetNameLength])
	}
	name = strings.Trim(name, "'")
	if name == "" {
		return DefaultSheet
	}
	return name
}

// Build creates the template workbook. The caller closes the file.
func Build(p Params) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := SheetName(p.Title)
	if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsxtemplate: sheet name: %w", err)
	}

	header := make([]any, 0, len(p.Columns))
	for _, title := range p.Headers() {
		header = append(header, title)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsxtemplate: header row: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A2", &[]any{p.Explain}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsxtemplate: explain row: %w", err)
	}
	return f, nil
}

// Write builds the workbook for p and writes it to w.
func Write(w io.Writer, p Params) error {
	f, err := Build(p)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsxtemplate: write: %w", err)
	}
	return nil
}

// FileName is the download name for title.
func FileName(title string) string {
	if strings.TrimSpace(title) == "" {
		title = DefaultSheet
	}
	return EncodeURI(title) + ".xlsx"
}

// EncodeURI percent-encodes s the way a browser encodes a full URI: reserved
// and unreserved ASCII characters are kept, everything else is escaped as
// UTF-8 bytes.
func EncodeURI(s string) string {
	const keep = "-_.!~*'();/?:@&=+$,#"
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case strings.IndexByte(keep, c) >= 0:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		}
	}
	return b.String()
}
