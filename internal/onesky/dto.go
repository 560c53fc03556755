package onesky

import "encoding/json"

// Meta is the status block present in every OneSky JSON response
type Meta struct {
	Status      int     `json:"status"`
	Message     string  `json:"message,omitempty"`
	RecordCount int     `json:"record_count,omitempty"`
	PageCount   int     `json:"page_count,omitempty"`
	NextPage    *string `json:"next_page,omitempty"`
}

// Envelope is the root of OneSky JSON responses
type Envelope struct {
	Meta Meta            `json:"meta"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Language is an entry of GET /projects/{id}/languages
type Language struct {
	Code                string `json:"code"`
	EnglishName         string `json:"english_name"`
	LocalName           string `json:"local_name"`
	CustomLocale        string `json:"custom_locale,omitempty"`
	Locale              string `json:"locale"`
	Region              string `json:"region,omitempty"`
	IsBaseLanguage      bool   `json:"is_base_language"`
	IsReadyToPublish    bool   `json:"is_ready_to_publish"`
	TranslationProgress string `json:"translation_progress,omitempty"`
}

// File is an entry of GET /projects/{id}/files
type File struct {
	FileName            string      `json:"file_name"`
	StringCount         int         `json:"string_count"`
	LastImport          *LastImport `json:"last_import,omitempty"`
	UploadedAt          string      `json:"uploaded_at,omitempty"`
	UploadedAtTimestamp int64       `json:"uploaded_at_timestamp,omitempty"`
}

// LastImport describes the most recent import of a file
type LastImport struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// UploadedFile is the data block of POST /projects/{id}/files
type UploadedFile struct {
	Name     string `json:"name"`
	Format   string `json:"format"`
	Language struct {
		Code   string `json:"code"`
		Locale string `json:"locale"`
	} `json:"language"`
	Import struct {
		ID                 int64  `json:"id"`
		CreatedAt          string `json:"created_at"`
		CreatedAtTimestamp int64  `json:"created_at_timestamp"`
	} `json:"import"`
}
