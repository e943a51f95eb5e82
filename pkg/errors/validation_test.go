package errors

import "testing"

func TestValidateDatabaseName(t *testing.T) {
	tests := []struct {
		name    string
		db      string
		wantErr bool
	}{
		{"simple", "afg", false},
		{"underscore", "kmer_graphs", false},
		{"empty", "", true},
		{"dot", "afg.prod", true},
		{"slash", "afg/prod", true},
		{"space", "afg prod", true},
		{"too long", string(make([]byte, 64)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseName(tt.db)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDatabaseName(%q) error = %v, wantErr %v", tt.db, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("ValidateDatabaseName(%q) code = %v, want %v", tt.db, GetCode(err), ErrCodeInvalidConfig)
			}
		})
	}
}

func TestValidateLocation(t *testing.T) {
	tests := []struct {
		name     string
		location string
		wantErr  bool
	}{
		{"mongo uri", "mongodb://localhost:27017", false},
		{"mongo srv", "mongodb+srv://cluster0.example.net", false},
		{"fasta path", "data/reads.fasta", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"control char", "reads\n.fasta", true},
		{"uri without host", "mongodb://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLocation(tt.location)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLocation(%q) error = %v, wantErr %v", tt.location, err, tt.wantErr)
			}
		})
	}
}

func TestIsMongoURI(t *testing.T) {
	if !IsMongoURI("mongodb://localhost") {
		t.Error("IsMongoURI(mongodb://localhost) = false, want true")
	}
	if !IsMongoURI("mongodb+srv://cluster") {
		t.Error("IsMongoURI(mongodb+srv://cluster) = false, want true")
	}
	if IsMongoURI("reads.fasta") {
		t.Error("IsMongoURI(reads.fasta) = true, want false")
	}
}
