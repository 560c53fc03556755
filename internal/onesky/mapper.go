package onesky

import (
	"time"

	"github.com/mmcdole/onesky-sync/internal/domain"
)

// MapLanguages converts OneSky language records to domain languages.
// The order of the records is preserved.
func MapLanguages(langs []Language) []domain.Language {
	out := make([]domain.Language, 0, len(langs))
	for _, l := range langs {
		out = append(out, domain.Language{
			Locale:      domain.Locale(l.Locale),
			Code:        l.Code,
			EnglishName: l.EnglishName,
			IsBase:      l.IsBaseLanguage,
		})
	}
	return out
}

// MapFiles converts OneSky file records to domain remote files
func MapFiles(files []File) []domain.RemoteFile {
	out := make([]domain.RemoteFile, 0, len(files))
	for _, f := range files {
		rf := domain.RemoteFile{
			FileName:    f.FileName,
			StringCount: f.StringCount,
		}
		if f.UploadedAtTimestamp > 0 {
			rf.UploadedAt = time.Unix(f.UploadedAtTimestamp, 0).UTC()
		}
		out = append(out, rf)
	}
	return out
}

// MapUpload converts the upload acknowledgement to a domain result
func MapUpload(f UploadedFile) *domain.UploadResult {
	res := &domain.UploadResult{ImportID: f.Import.ID}
	if f.Import.CreatedAtTimestamp > 0 {
		res.CreatedAt = time.Unix(f.Import.CreatedAtTimestamp, 0).UTC()
	}
	return res
}
