package plume_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	plume "github.com/jojo1992341/plume"
)

// Example demonstrates the whole pipeline on a small book: typographic
// normalization plus markdown serialization. PDF export works the same
// way via ExportPDF (requires Chrome).
func Example() {
	svc, err := plume.New()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer svc.Close()

	text, err := svc.ExportMarkdown(context.Background(), plume.ExportInput{
		Book: plume.Book{
			Title: "Notes",
			Chapters: []plume.Chapter{
				{Title: "Premier", Content: `Elle dit "oui".`},
			},
		},
		FixTypography: true,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Print(text)
	// Output:
	// ---
	// title: Notes
	// language: fr
	// ---
	//
	// #### Premier
	//
	// Elle dit «oui».
}

// ExampleNormalizeTypography demonstrates French quote conversion with
// dialogue state carried across lines.
func ExampleNormalizeTypography() {
	text := `"Tu viens demain ?
Oui, c'est promis."`

	fmt.Println(plume.NormalizeTypography(text))
	// Output:
	// «Tu viens demain ?
	// Oui, c'est promis.»
}

// ExampleParseManuscript demonstrates reading a manuscript with YAML
// front matter into a Book.
func ExampleParseManuscript() {
	manuscript := `---
title: Les Essais
author: Jeanne Dupont
---

#### Premier

Elle part.

#### La Fuite

Il pleut.
`

	book, err := plume.ParseManuscript(manuscript)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("%s, %d chapters\n", book.Title, len(book.Chapters))
	// Output: Les Essais, 2 chapters
}

// ExampleSplitChapters demonstrates chapter segmentation on level-four
// headings.
func ExampleSplitChapters() {
	text := `#### Premier

Elle part.

#### La Fuite

Il pleut.`

	for _, ch := range plume.SplitChapters(text) {
		fmt.Println(ch.Title)
	}
	// Output:
	// Premier
	// La Fuite
}

// ExampleComposeManuscript demonstrates writing a Book back out as a
// single manuscript file.
func ExampleComposeManuscript() {
	text, err := plume.ComposeManuscript(plume.Book{
		Title:  "Les Essais",
		Author: "Jeanne Dupont",
		Chapters: []plume.Chapter{
			{Title: "Premier", Content: "Elle part."},
		},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Print(text)
	// Output:
	// ---
	// title: Les Essais
	// author: Jeanne Dupont
	// ---
	//
	// #### Premier
	//
	// Elle part.
}

// ExampleService_Preview demonstrates rendering one chapter for an editor
// preview pane.
func ExampleService_Preview() {
	svc, err := plume.New()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer svc.Close()

	fragment, err := svc.Preview(context.Background(), "Un *mot* pour commencer.")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// Block elements carry source positions for scroll sync
	if strings.Contains(fragment, "data-source-line") {
		fmt.Println("Fragment rendered")
	}
	// Output: Fragment rendered
}

// ExampleService_ExportHTML demonstrates standalone HTML export.
func ExampleService_ExportHTML() {
	svc, err := plume.New()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer svc.Close()

	doc, err := svc.ExportHTML(context.Background(), plume.ExportInput{
		Book: plume.Book{
			Title: "Les Essais",
			Chapters: []plume.Chapter{
				{Title: "Premier", Content: "Elle part."},
			},
		},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(doc, "<!DOCTYPE html>") && strings.Contains(doc, "Les Essais") {
		fmt.Println("HTML generated")
	}
	// Output: HTML generated
}

// ExampleService_ExportEPUB demonstrates EPUB 3 packaging.
func ExampleService_ExportEPUB() {
	svc, err := plume.New()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer svc.Close()

	data, err := svc.ExportEPUB(context.Background(), plume.ExportInput{
		Book: plume.Book{
			Title: "Les Essais",
			Chapters: []plume.Chapter{
				{Title: "Premier", Content: "Elle part."},
			},
		},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// An EPUB is a ZIP archive
	if bytes.HasPrefix(data, []byte("PK")) {
		fmt.Println("EPUB generated")
	}
	// Output: EPUB generated
}

// ExampleNew_withStyle demonstrates using a built-in stylesheet.
func ExampleNew_withStyle() {
	svc, err := plume.New(plume.WithStyle("manuscript"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer svc.Close()

	doc, err := svc.ExportHTML(context.Background(), plume.ExportInput{
		Book: plume.Book{
			Title: "Brouillon",
			Chapters: []plume.Chapter{
				{Title: "Premier", Content: "Elle part."},
			},
		},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// The manuscript style sets a typewriter font
	if strings.Contains(doc, "Courier Prime") {
		fmt.Println("Manuscript style applied")
	}
	// Output: Manuscript style applied
}

// ExampleServicePool demonstrates parallel batch export.
func ExampleServicePool() {
	pool := plume.NewServicePool(2)

	books := []plume.Book{
		{Title: "Premier livre", Chapters: []plume.Chapter{{Title: "Un", Content: "Texte."}}},
		{Title: "Second livre", Chapters: []plume.Chapter{{Title: "Un", Content: "Texte."}}},
	}

	// Channel to collect results, WaitGroup to synchronize goroutines
	results := make(chan bool, len(books))
	var wg sync.WaitGroup

	for _, book := range books {
		wg.Add(1)
		go func(b plume.Book) {
			defer wg.Done()

			svc, err := pool.Acquire()
			if err != nil {
				results <- false
				return
			}
			defer pool.Release(svc)

			doc, err := svc.ExportHTML(context.Background(), plume.ExportInput{Book: b})
			results <- err == nil && strings.Contains(doc, "livre")
		}(book)
	}

	// Wait for all goroutines to finish before closing pool
	wg.Wait()
	pool.Close()

	// Collect results
	success := 0
	for range books {
		if <-results {
			success++
		}
	}
	fmt.Printf("Exported %d books\n", success)
	// Output: Exported 2 books
}
