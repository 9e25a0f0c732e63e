package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	// Добавляем файл первый раз
	id1 := fs.Add("test.sas", []byte("%put hello;"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("test.sas")
	if !exists {
		t.Error("Expected file to exist after Add")
	}
	if latestID != id1 {
		t.Errorf("Expected latest ID to be %d, got %d", id1, latestID)
	}

	// Добавляем тот же файл с новым содержимым
	id2 := fs.Add("test.sas", []byte("%put universe;"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, _ = fs.GetLatest("test.sas")
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	// Старый файл все еще доступен
	if got := string(fs.Get(id1).Content); got != "%put hello;" {
		t.Errorf("Expected first file content to be kept, got %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Expected 2 files, got %d", fs.Len())
	}
}

// TestAddVirtualLineIdx проверяет правильность построения LineIdx для AddVirtual
func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.sas", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
	if file.LineCount() != 2 {
		t.Errorf("Expected 2 lines, got %d", file.LineCount())
	}
}

func TestCRLFIsPreserved(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("crlf.sas", []byte("a\r\nb\nc"))
	file := fs.Get(id)

	if file.Flags&FileHasCRLF == 0 {
		t.Error("Expected FileHasCRLF flag to be set")
	}
	if got := file.GetLine(1); got != "a" {
		t.Errorf("GetLine(1) = %q, want %q", got, "a")
	}
	if got := file.LineEnding(1); got != "\r\n" {
		t.Errorf("LineEnding(1) = %q, want CRLF", got)
	}
	if got := file.LineEnding(2); got != "\n" {
		t.Errorf("LineEnding(2) = %q, want LF", got)
	}
	if got := file.LineEnding(3); got != "" {
		t.Errorf("LineEnding(3) = %q, want empty", got)
	}
	if got := file.GetLine(3); got != "c" {
		t.Errorf("GetLine(3) = %q, want %q", got, "c")
	}
}

func TestBOMRemoval(t *testing.T) {
	bomContent := []byte{0xEF, 0xBB, 0xBF, 'x', '\n'}
	withoutBOM, hadBOM := removeBOM(bomContent)

	if !hadBOM {
		t.Error("Expected BOM to be detected")
	}
	if string(withoutBOM) != "x\n" {
		t.Errorf("Expected content without BOM, got %q", string(withoutBOM))
	}
}

// TestResolveCodePoints проверяет, что колонки считаются в кодовых точках
func TestResolveCodePoints(t *testing.T) {
	fs := NewFileSet()

	// α занимает 2 байта
	content := []byte("αβ x;\n  y;")
	id := fs.AddVirtual("test.sas", content)

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 2}},
		{5, LineCol{Line: 1, Col: 4}},
		{7, LineCol{Line: 1, Col: 6}},
		{8, LineCol{Line: 2, Col: 1}},
		{10, LineCol{Line: 2, Col: 3}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestEdgeCases(t *testing.T) {
	fs := NewFileSet()

	file1 := fs.Get(fs.AddVirtual("empty.sas", []byte{}))
	if len(file1.LineIdx) != 0 || file1.LineCount() != 0 {
		t.Errorf("Expected no lines for empty file, got %v", file1.LineIdx)
	}
	if got := file1.GetLine(1); got != "" {
		t.Errorf("Expected empty line, got %q", got)
	}

	file2 := fs.Get(fs.AddVirtual("no_newlines.sas", []byte("hello")))
	if file2.LineCount() != 1 {
		t.Errorf("Expected 1 line, got %d", file2.LineCount())
	}

	file3 := fs.Get(fs.AddVirtual("only_newline.sas", []byte("\n")))
	if len(file3.LineIdx) != 1 || file3.LineIdx[0] != 0 {
		t.Errorf("Expected LineIdx [0] for file with only newline, got %v", file3.LineIdx)
	}
	if got := file3.GetLine(5); got != "" {
		t.Errorf("Expected empty string for missing line, got %q", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.sas")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\n"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a\r\nb\n" {
		t.Errorf("unexpected content %q", string(file.Content))
	}
	if file.Flags&FileHadBOM == 0 {
		t.Error("Expected FileHadBOM flag to be set")
	}
	if file.Flags&FileHasCRLF == 0 {
		t.Error("Expected FileHasCRLF flag to be set")
	}

	if _, err := fs.Load(filepath.Join(dir, "missing.sas")); err == nil {
		t.Error("Expected error for missing file")
	}
}
