// ABOUTME: Basic example showing page classification and reading with the library
// ABOUTME: Demonstrates minimal configuration and common use cases

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	pagereader "pagereader-api/pagereader-lib"
)

func main() {
	pageURL := "https://go.dev/blog/go1.23"
	if len(os.Args) > 1 {
		pageURL = os.Args[1]
	}

	client, err := pagereader.NewClient(pagereader.WithQuietMode())
	if err != nil {
		log.Fatal("Failed to create client:", err)
	}
	defer client.Close()

	ctx := context.Background()

	fmt.Println("=== Classifying ===")
	verdict, err := client.Classify(ctx, pageURL, nil)
	if err != nil {
		log.Fatalf("Error classifying %s: %v", pageURL, err)
	}
	fmt.Printf("Mode: %s (paragraphs: %d, listing elements: %d)\n",
		verdict.Mode, verdict.Signals.SubstantialParagraphs, verdict.Signals.ListingElements)

	fmt.Println("\n=== Reading ===")
	page, err := client.Read(ctx, pageURL, nil)
	switch {
	case pagereader.IsEmptyListingError(err):
		fmt.Println("No links found on this page")
		return
	case err != nil:
		log.Fatalf("Error reading %s: %v", pageURL, err)
	}

	switch page.Mode {
	case pagereader.ModeArticle:
		fmt.Printf("Title: %s\n", page.Article.Title)
		fmt.Printf("Words: %d (%d min)\n", page.Article.WordCount, page.Article.ReadingTimeMinutes)
	case pagereader.ModeListing:
		for _, section := range page.Listing.Sections {
			fmt.Printf("- %s (%d links)\n", section.Title, len(section.Items))
		}
	}
	fmt.Printf("Rendered %d bytes of reader HTML\n", len(page.HTML))
}
