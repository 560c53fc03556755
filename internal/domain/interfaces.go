package domain

import "context"

// TranslationService is the remote translation-management platform.
// Listing calls fail with an error for both transport and payload problems.
// Export and upload separate the two: a transport problem is the returned
// error, an application-level problem is the result's Failure.
type TranslationService interface {
	// ListLanguages returns the languages enabled for the project, in the
	// order the service reports them
	ListLanguages(ctx context.Context, projectID string) ([]Language, error)

	// ListFiles returns the project's file manifest
	ListFiles(ctx context.Context, projectID string) ([]RemoteFile, error)

	// UploadFile submits a local catalogue for the given locale
	UploadFile(ctx context.Context, projectID string, req UploadRequest) (*UploadResult, error)

	// ExportTranslation downloads the translated catalogue for one locale
	ExportTranslation(ctx context.Context, projectID string, req ExportRequest) (*ExportResult, error)
}

// PathExpander resolves %placeholder% patterns in operator-supplied paths.
type PathExpander interface {
	Expand(pattern string) (string, error)
}

// PathExpanderFunc adapts a plain function to PathExpander.
type PathExpanderFunc func(pattern string) (string, error)

// Expand calls f(pattern).
func (f PathExpanderFunc) Expand(pattern string) (string, error) {
	return f(pattern)
}
