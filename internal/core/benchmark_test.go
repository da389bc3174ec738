package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"testing"
)

// ============================================================================
// Column Resolution Benchmarks
// ============================================================================

func BenchmarkResolveColumns(b *testing.B) {
	header := []string{"\ufeffNombre", "Apellido", "Correo", "Carrera", "Notas", "Teléfono"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ResolveColumns(header); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkResolveColumns_Wide puts the required columns at the end of a wide sheet.
func BenchmarkResolveColumns_Wide(b *testing.B) {
	header := make([]string, 0, 54)
	for i := 0; i < 50; i++ {
		header = append(header, fmt.Sprintf("extra_%d", i))
	}
	header = append(header, canonicalHeader...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ResolveColumns(header); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// Import Benchmarks
// ============================================================================

func benchSheet(rows int) SheetData {
	sheet := SheetData{Name: "Bench", Header: canonicalHeader}
	for i := 0; i < rows; i++ {
		estudio := Estudios[i%len(Estudios)]
		email := fmt.Sprintf("user%d@example.com", i)
		if i%10 == 0 {
			email = fmt.Sprintf("user%d-at-example", i)
		}
		sheet.Rows = append(sheet.Rows, []string{"Nombre", "Apellido", email, estudio})
	}
	return sheet
}

func BenchmarkImportSheet(b *testing.B) {
	sheet := benchSheet(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ImportSheet(sheet)
	}
}

func BenchmarkImportSheet_Large(b *testing.B) {
	sheet := benchSheet(50000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ImportSheet(sheet)
	}
}

func BenchmarkCleanCell(b *testing.B) {
	cells := []string{"Ana", "  padded  ", `="00123"`, "=A1&B1", ""}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, c := range cells {
			cleanCell(c)
		}
	}
}

// ============================================================================
// Text Reader Benchmarks
// ============================================================================

func generateTestCSV(rows int) []byte {
	var buf bytes.Buffer
	buf.WriteString("\ufeffnombres,apellidos,email,estudio\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&buf, "Nombre%d,Apellido%d,user%d@example.com,Sistemas\n", i, i, i)
	}
	return buf.Bytes()
}

func BenchmarkSanitizer_ValidInput(b *testing.B) {
	data := generateTestCSV(10000)
	b.SetBytes(int64(len(data)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		io.Copy(io.Discard, newUTF8Sanitizer(bytes.NewReader(data)))
	}
}

func BenchmarkSanitizer_InvalidInput(b *testing.B) {
	data := bytes.Repeat([]byte("Mar\xeda,G\xf3mez,maria@example.com,Sistemas\n"), 10000)
	b.SetBytes(int64(len(data)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		io.Copy(io.Discard, newUTF8Sanitizer(bytes.NewReader(data)))
	}
}

// BenchmarkCSVPipeline measures the full CSV read path used by csvWorkbook.
func BenchmarkCSVPipeline(b *testing.B) {
	data := generateTestCSV(10000)
	b.SetBytes(int64(len(data)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := csv.NewReader(newUTF8Sanitizer(skipBOM(bytes.NewReader(data))))
		r.FieldsPerRecord = -1
		r.ReuseRecord = true
		for {
			if _, err := r.Read(); err != nil {
				if err != io.EOF {
					b.Fatal(err)
				}
				break
			}
		}
	}
}

// ============================================================================
// Parallel Benchmarks
// ============================================================================

func BenchmarkImportSheetParallel(b *testing.B) {
	sheet := benchSheet(1000)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			ImportSheet(sheet)
		}
	})
}
