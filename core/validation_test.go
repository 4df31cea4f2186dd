package core

import (
	"errors"
	"testing"
)

func TestValidateChemicalRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *ChemicalRecord
		wantErr error
	}{
		{
			name:    "valid record",
			record:  &ChemicalRecord{UNNumber: 1133, ChineseName: "黏合剂"},
			wantErr: nil,
		},
		{
			name:    "valid record with ID 0 and empty optional fields",
			record:  &ChemicalRecord{Id: 0, UNNumber: 3480, ChineseName: "锂离子电池组"},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidChemicalRecord,
		},
		{
			name:    "zero UN number",
			record:  &ChemicalRecord{ChineseName: "黏合剂"},
			wantErr: ErrInvalidUNNumber,
		},
		{
			name:    "negative UN number",
			record:  &ChemicalRecord{UNNumber: -4, ChineseName: "黏合剂"},
			wantErr: ErrInvalidUNNumber,
		},
		{
			name:    "blank name",
			record:  &ChemicalRecord{UNNumber: 1133, ChineseName: "   "},
			wantErr: ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChemicalRecord(tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChemicalRecord() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChemicalRecord() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidChemicalRecord) {
				t.Errorf("ValidateChemicalRecord() error = %v, should wrap ErrInvalidChemicalRecord", err)
			}
		})
	}
}

func TestValidateDocument(t *testing.T) {
	valid := Document{
		Content: "188 锂电池的特殊规定",
		Metadata: DocumentMetadata{
			ID:      "appendix_0_0",
			Source:  SourceRegulationCorpus,
			DocType: DocTypeRegulation,
		},
	}

	tests := []struct {
		name    string
		mutate  func(d *Document)
		wantErr error
	}{
		{name: "valid document", mutate: func(d *Document) {}},
		{name: "empty content", mutate: func(d *Document) { d.Content = " \n" }, wantErr: ErrEmptyContent},
		{name: "unknown doc type", mutate: func(d *Document) { d.Metadata.DocType = "memo" }, wantErr: ErrInvalidDocType},
		{name: "unknown source", mutate: func(d *Document) { d.Metadata.Source = "mysql" }, wantErr: ErrInvalidSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := valid
			tt.mutate(&doc)
			err := ValidateDocument(&doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := ValidateDocument(nil); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("ValidateDocument(nil) error = %v, want ErrInvalidDocument", err)
	}
}

func TestParseUNNumber(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "1133", want: 1133},
		{raw: " UN1133 ", want: 1133},
		{raw: "un 3480", want: 3480},
		{raw: "1993.0", want: 1993},
		{raw: "-", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseUNNumber(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidUNNumber) {
					t.Errorf("ParseUNNumber(%q) error = %v, want ErrInvalidUNNumber", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseUNNumber(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseUNNumber(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		want    Strategy
		wantErr bool
	}{
		{name: "", want: StrategyAuto},
		{name: "auto", want: StrategyAuto},
		{name: "EXACT", want: StrategyExact},
		{name: " semantic ", want: StrategySemantic},
		{name: "hybrid", want: StrategyHybrid},
		{name: "fuzzy", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrategy(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStrategy) {
					t.Errorf("ParseStrategy(%q) error = %v, want ErrInvalidStrategy", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStrategy(%q) error = %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseStrategy(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if round, _ := ParseStrategy(got.String()); round != got {
				t.Errorf("String() does not round trip for %v", got)
			}
		})
	}

	if err := ValidateStrategy(Strategy(42)); !errors.Is(err, ErrInvalidStrategy) {
		t.Errorf("ValidateStrategy(42) error = %v, want ErrInvalidStrategy", err)
	}
}
