package utils

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/typing-hub-backend/internal"
)

//go:embed words/*.csv
var wordFiles embed.FS

// Vocabulary maps a language to its words grouped by length tier.
type Vocabulary map[internal.Language]map[int][]string

// LoadVocabulary reads the embedded word lists, one csv file per language.
func LoadVocabulary() (Vocabulary, error) {
	vocab := make(Vocabulary)
	for _, lang := range []internal.Language{internal.LanguageKorean, internal.LanguageEnglish} {
		filePath := "words/" + string(lang) + ".csv"
		f, err := wordFiles.Open(filePath)
		if err != nil {
			return nil, fmt.Errorf("unable to read word file %s: %w", filePath, err)
		}
		tiers, err := ReadWordsCsv(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("unable to parse word file %s: %w", filePath, err)
		}
		vocab[lang] = tiers
	}
	return vocab, nil
}

// ReadWordsCsv parses "word,tier" records. Bad records are skipped.
func ReadWordsCsv(r io.Reader) (map[int][]string, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}

	tiers := make(map[int][]string)
	for _, record := range records {
		if len(record) < 2 || record[0] == "" {
			log.Warn().Strs("record", record).Msg("[ReadWordsCsv] skipping invalid record")
			continue
		}
		tier, err := strconv.Atoi(record[1])
		if err != nil {
			log.Warn().Strs("record", record).Msg("[ReadWordsCsv] invalid tier value")
			continue
		}
		tiers[tier] = append(tiers[tier], record[0])
	}
	return tiers, nil
}
