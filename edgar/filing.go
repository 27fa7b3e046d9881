package edgar

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// ErrInvalidFiling indicates a filing whose index could not be retrieved
// or that lacks a requested document.
var ErrInvalidFiling = errors.New("invalid filing")

// Document is one entry of a filing's document manifest.
type Document struct {
	Type        string
	Sequence    string
	Filename    string
	Description string
}

// Filing is the parsed index of one EDGAR submission.
type Filing struct {
	CIK             string
	AccessionNumber string
	IdxFilename     string
	DateFiled       string
	Documents       []Document
}

func (f *Filing) String() string {
	return fmt.Sprintf("Filing(%s,%s,%s,docs=%d)",
		f.CIK, f.AccessionNumber, f.DateFiled, len(f.Documents))
}

// DocPaths returns the archive paths of every document of the given type.
func (f *Filing) DocPaths(docType string) ([]string, error) {
	dir := path.Dir(indexHeadersPath(f.IdxFilename))

	var paths []string
	for _, doc := range f.Documents {
		if doc.Type == docType {
			paths = append(paths, path.Join(dir, doc.Filename))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s does not contain a %s document",
			ErrInvalidFiling, f.IdxFilename, docType)
	}
	return paths, nil
}

var idxFilenameRe = regexp.MustCompile(`edgar/data/(\d+)/(.+)\.txt`)

// ParseIdxFilename extracts CIK and accession number from a master.idx
// filename like "edgar/data/106830/0001683863-20-000050.txt".
func ParseIdxFilename(idxFilename string) (cik, accessionNumber string, err error) {
	m := idxFilenameRe.FindStringSubmatch(idxFilename)
	if m == nil {
		return "", "", fmt.Errorf("unexpected idx filename format: %s", idxFilename)
	}
	return m[1], m[2], nil
}

// indexHTMLPath converts a master.idx filename to the filing's index page,
// e.g. edgar/data/1007571/0001193125-24-109215.txt becomes
// edgar/data/1007571/000119312524109215/0001193125-24-109215-index.html.
func indexHTMLPath(idxFilename string) string {
	base := strings.TrimSuffix(path.Base(idxFilename), ".txt")
	return path.Join(path.Dir(idxFilename), strings.ReplaceAll(base, "-", ""), base+"-index.html")
}

// indexHeadersPath is the index-headers variant of the filing's index page.
func indexHeadersPath(idxFilename string) string {
	return strings.Replace(indexHTMLPath(idxFilename), "-index.html", "-index-headers.html", 1)
}
