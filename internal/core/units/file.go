package units

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

// FileSource 從 CSV / YAML / JSON 檔案載入單位
type FileSource struct {
	path string
}

// NewFileSource 創建檔案來源，格式由副檔名決定
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name 來源名稱
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// unitDocument YAML / JSON 文件格式
type unitDocument struct {
	Units []rawUnit `json:"units" yaml:"units"`
}

type rawUnit struct {
	Code         string  `json:"code" yaml:"code"`
	Family       string  `json:"family" yaml:"family"`
	Factor       float64 `json:"factor" yaml:"factor"`
	IngredientID string  `json:"ingredient_id" yaml:"ingredient_id"`
}

func (r rawUnit) toUnit() (Unit, error) {
	f, err := ParseFamily(r.Family)
	if err != nil {
		return Unit{}, err
	}
	return Unit{
		Code:         strings.TrimSpace(r.Code),
		Family:       f,
		Factor:       r.Factor,
		IngredientID: strings.TrimSpace(r.IngredientID),
	}, nil
}

// Load 讀取並解析檔案
func (s *FileSource) Load(ctx context.Context) ([]Unit, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".csv":
		return parseCSV(file)
	case ".yaml", ".yml":
		var doc unitDocument
		if err := yaml.NewDecoder(file).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml %s: %w", s.path, err)
		}
		return convertRaw(doc.Units)
	case ".json":
		var doc unitDocument
		if err := json.NewDecoder(file).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json %s: %w", s.path, err)
		}
		return convertRaw(doc.Units)
	default:
		return nil, fmt.Errorf("unsupported unit file format %q", filepath.Ext(s.path))
	}
}

func convertRaw(raw []rawUnit) ([]Unit, error) {
	out := make([]Unit, 0, len(raw))
	for i, r := range raw {
		u, err := r.toUnit()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, u)
	}
	return out, nil
}

// parseCSV 欄位：code,family,factor[,ingredient_id]。首列為標題時略過，容許 UTF-8 BOM。
func parseCSV(r io.Reader) ([]Unit, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(r, decoder))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var out []Unit
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++
		if len(record) < 2 {
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "code") {
			continue
		}

		raw := rawUnit{Code: record[0], Family: record[1]}
		if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
			factor, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
			if err != nil {
				return nil, fmt.Errorf("csv line %d: invalid factor %q: %w", line, record[2], err)
			}
			raw.Factor = factor
		}
		if len(record) > 3 {
			raw.IngredientID = record[3]
		}

		u, err := raw.toUnit()
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		out = append(out, u)
	}
	return out, nil
}
