//go:build bench

package plume

import "testing"

func BenchmarkBuildWatermarkCSS(b *testing.B) {
	for _, bench := range []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"short", "BROUILLON"},
		{"long", "ÉPREUVE NON CORRIGÉE NE PAS DIFFUSER"},
		{"escaped", `"BROUILLON"\v1.3` + "\n2026"},
	} {
		b.Run(bench.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = buildWatermarkCSS(bench.text)
			}
		})
	}
}

func BenchmarkEscapeCSSString(b *testing.B) {
	for _, bench := range []struct {
		name string
		text string
	}{
		{"clean", "BROUILLON"},
		{"mixed", "A\"B\\C\nD\r50%"},
	} {
		b.Run(bench.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = escapeCSSString(bench.text)
			}
		})
	}
}

func BenchmarkBuildPrintCSS(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = buildPrintCSS()
	}
}
