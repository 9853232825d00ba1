// Package core contains the reader-mode logic of the page reader.
// It is designed to be framework-agnostic and can be used independently
// of any web framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Pure data models (ArticleData, ListingData, PaginationState, Settings)
// - document: Frozen document snapshots and private clones
// - preprocess: Consent and embed removal on a clone
// - classify: Article or listing verdict with a speculative extraction probe
// - article: Article extraction, word count and reading time
// - listing: Section and link extraction for listing pages
// - sanitize: Allow-list HTML cleaning
// - render: Content block HTML for both modes
// - pagination: Column layout, page count and navigation over a Surface
// - store: Settings, sticky origins and reading positions over a Cache
// - reader: The per-document Session, its registry and the shared Pipeline
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (cache, extractor, surface, logger)
//
// # Design Principles
//
// The core package follows clean architecture principles:
// - No HTTP framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
// - Domain models are free from persistence concerns
//
// # Usage Example
//
//	import (
//	    "pagereader-api/core/config"
//	    "pagereader-api/core/interfaces"
//	    "pagereader-api/core/reader"
//	)
//
//	pipeline := reader.NewPipeline(config.DefaultHeuristics(), interfaces.Dependencies{
//	    Extractor: myExtractor, // implements interfaces.ArticleExtractor
//	    Logger:    myLogger,    // implements interfaces.Logger
//	})
//
//	session, err := reader.NewSession(reader.Config{
//	    Source:   captureDocument,
//	    Pipeline: pipeline,
//	    Surface:  surface,
//	    Renderer: renderer,
//	})
//	state, err := session.Activate(ctx)
package core
