package fileio

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

// readCSV reads CSV, auto-detecting the encoding and converting to UTF-8.
// GB18030/GBK is the common case for this domain; UTF-8 and Windows-1252
// pass through too.
func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(decodeReader(r))
	cr.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// decodeReader sniffs the charset from a peek buffer and wraps the reader
// with the matching decoder.
func decodeReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	peek, _ := br.Peek(2048)
	cs := "utf-8"
	if len(peek) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
			cs = strings.ToLower(det.Charset)
		}
	}

	var dec *encoding.Decoder
	switch cs {
	case "gb18030", "gbk", "gb2312", "gb-18030":
		dec = simplifiedchinese.GB18030.NewDecoder()
	case "big5":
		dec = traditionalchinese.Big5.NewDecoder()
	case "windows-1252", "iso-8859-1":
		dec = charmap.Windows1252.NewDecoder()
	default:
		return br // assume UTF-8
	}
	return transform.NewReader(br, dec)
}
