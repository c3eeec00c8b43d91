package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"regexp"
	"sort"
	"strings"

	zerrors "github.com/zero-assistant/zeroindex/internal/errors"
)

// slidePartPattern matches the slide XML parts of a pptx archive.
var slidePartPattern = regexp.MustCompile(`^ppt/slides/slide[0-9]+\.xml$`)

// extractPresentation parses the archive's slide XML parts in
// filename-sorted order and collects every text run in document order.
// A slide that fails to parse is skipped, not fatal.
func extractPresentation(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", zerrors.ExtractError("cannot open presentation archive", err)
	}

	slides := make(map[string]*zip.File)
	var names []string
	for _, f := range zr.File {
		if slidePartPattern.MatchString(f.Name) {
			slides[f.Name] = f
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		runs, err := extractSlideRuns(slides[name])
		if err != nil {
			continue
		}
		lines = append(lines, runs...)
	}

	return strings.Join(lines, "\n"), nil
}

// extractSlideRuns returns the text of every DrawingML <a:t> node in one
// slide part, in document order.
func extractSlideRuns(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var runs []string
	decoder := xml.NewDecoder(rc)
	inTextRun := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inTextRun = false
			}
		case xml.CharData:
			if inTextRun {
				if run := strings.TrimSpace(string(t)); run != "" {
					runs = append(runs, run)
				}
			}
		}
	}

	return runs, nil
}
