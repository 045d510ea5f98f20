package sheet

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

// ArrayFormulas maps sheet name to cell reference to the range its array
// formula spills over. excelize does not report a formula's type, so the
// worksheet parts are read directly from the package.
type ArrayFormulas map[string]map[string]string

// Ref returns the array range anchored at cell, if any.
func (a ArrayFormulas) Ref(sheetName, cell string) (string, bool) {
	ref, ok := a[sheetName][cell]
	return ref, ok
}

// ReadArrayFormulas scans an xlsx/xlsm file for array formulas.
func ReadArrayFormulas(xlsxPath string) (ArrayFormulas, error) {
	r, err := zip.OpenReader(xlsxPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	parts, err := worksheetParts(&r.Reader)
	if err != nil {
		return nil, err
	}

	result := make(ArrayFormulas)
	for sheetName, part := range parts {
		zf := findPart(&r.Reader, part)
		if zf == nil {
			continue
		}
		refs, err := scanPart(zf)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", part, err)
		}
		if len(refs) > 0 {
			result[sheetName] = refs
		}
	}
	return result, nil
}

type workbookPart struct {
	Sheets []struct {
		Name string `xml:"name,attr"`
		RID  string `xml:"id,attr"`
	} `xml:"sheets>sheet"`
}

type relationshipsPart struct {
	Relationships []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// worksheetParts returns sheet name -> worksheet part path. A package
// without a workbook part yields an empty map.
func worksheetParts(r *zip.Reader) (map[string]string, error) {
	parts := make(map[string]string)

	var wb workbookPart
	if ok, err := decodePart(r, "xl/workbook.xml", &wb); !ok || err != nil {
		return parts, err
	}
	var rels relationshipsPart
	if ok, err := decodePart(r, "xl/_rels/workbook.xml.rels", &rels); !ok || err != nil {
		return parts, err
	}

	targets := make(map[string]string, len(rels.Relationships))
	for _, rel := range rels.Relationships {
		if strings.HasSuffix(rel.Type, "/worksheet") {
			targets[rel.ID] = partPath(rel.Target)
		}
	}
	for _, s := range wb.Sheets {
		if target, ok := targets[s.RID]; ok {
			parts[s.Name] = target
		}
	}
	return parts, nil
}

// partPath resolves a relationship target of xl/workbook.xml to a zip name.
func partPath(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join("xl", target))
}

func findPart(r *zip.Reader, name string) *zip.File {
	for _, f := range r.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func decodePart(r *zip.Reader, name string, v interface{}) (bool, error) {
	zf := findPart(r, name)
	if zf == nil {
		return false, nil
	}
	rc, err := zf.Open()
	if err != nil {
		return false, err
	}
	defer rc.Close()
	if err := xml.NewDecoder(rc).Decode(v); err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return true, nil
}

// scanPart streams a worksheet part and collects the ref of every
// <f t="array"> keyed by its enclosing cell.
func scanPart(zf *zip.File) (map[string]string, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	refs := make(map[string]string)
	decoder := xml.NewDecoder(rc)
	var cell string
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return refs, nil
		}
		if err != nil {
			return refs, err
		}
		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "c":
			cell = attr(se, "r")
		case "f":
			if cell == "" || attr(se, "t") != "array" {
				continue
			}
			ref := attr(se, "ref")
			if ref == "" {
				ref = cell
			}
			refs[cell] = ref
		}
	}
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
