package formulary

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/DevarneniSindhuja/medical/formulary/entities"
	"github.com/DevarneniSindhuja/medical/interfaces"
	"golang.org/x/text/encoding/charmap"
)

// Compile-time check to ensure FileLoader implements FormularyLoader
var _ interfaces.FormularyLoader = (*FileLoader)(nil)

// FileLoader reads a formulary from a tab-separated file. Expected columns:
//
//	name <TAB> interacts_with (comma separated) <TAB> min_age <TAB> dosage <TAB> alternative
//
// The alternative column may be empty. Lines starting with # are skipped.
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader for the given formulary file path
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Load implements the FormularyLoader interface
func (l *FileLoader) Load() (map[string]entities.DrugRecord, map[string]string, error) {
	cleanPath := filepath.Clean(l.path)

	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open formulary file %s: %w", cleanPath, err)
	}
	defer file.Close()

	bodyBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read formulary file %s: %w", cleanPath, err)
	}

	// Formulary exports show up in iso-8859-1 as well as utf8, so check first
	var reader io.Reader
	if utf8.Valid(bodyBytes) {
		reader = bytes.NewReader(bodyBytes)
	} else {
		reader = charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	}

	records, alternatives, err := parseFormularyLines(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse formulary file %s: %w", cleanPath, err)
	}

	if len(records) == 0 {
		return nil, nil, fmt.Errorf("formulary file %s contains no drug records", cleanPath)
	}

	return BuildFormulary(records, alternatives)
}

func parseFormularyLines(reader io.Reader) ([]entities.DrugRecord, map[string]string, error) {
	var records []entities.DrugRecord
	alternatives := make(map[string]string)

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0), 1*1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			return nil, nil, fmt.Errorf("line %d: expected at least 4 tab-separated fields, got %d", lineNumber, len(fields))
		}

		name := fields[0]
		minAge, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: invalid min_age %q: %w", lineNumber, fields[2], err)
		}

		var interacts []string
		if trimmed := strings.TrimSpace(fields[1]); trimmed != "" {
			for _, other := range strings.Split(trimmed, ",") {
				interacts = append(interacts, strings.TrimSpace(other))
			}
		}

		records = append(records, entities.DrugRecord{
			Name:          name,
			InteractsWith: interacts,
			MinAge:        minAge,
			Dosage:        fields[3],
		})

		if len(fields) >= 5 {
			if alternative := strings.TrimSpace(fields[4]); alternative != "" {
				alternatives[name] = alternative
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scanner error: %w", err)
	}

	return records, alternatives, nil
}
