// Package docs creates and updates the combined output document holding a
// job's cover letter and resume.
package docs

import (
	"context"
	"fmt"

	gdocs "google.golang.org/api/docs/v1"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// PageBreakMarker separates the cover letter and resume sections.
const PageBreakMarker = "--- PAGE BREAK ---"

// Doc is a durable reference to a combined document.
type Doc struct {
	ID  string
	URL string
}

// Service wraps the Docs and Drive APIs for document upserts.
type Service struct {
	docs  *gdocs.Service
	drive *gdrive.Service
}

// NewService creates a Docs service authenticated with a service account
// credentials file. Drive access is needed to move new documents into the
// output folder.
func NewService(ctx context.Context, credentialsFile string) (*Service, error) {
	docsSvc, err := gdocs.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gdocs.DocumentsScope, gdrive.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs service: %w", err)
	}
	driveSvc, err := gdrive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gdrive.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	return &Service{docs: docsSvc, drive: driveSvc}, nil
}

// Create makes a new combined document in the output folder and fills in its
// body.
func (s *Service) Create(ctx context.Context, folderID, title, resumeText, coverText string) (Doc, error) {
	created, err := s.docs.Documents.Create(&gdocs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return Doc{}, fmt.Errorf("failed to create document: %w", err)
	}
	docID := created.DocumentId

	_, err = s.docs.Documents.BatchUpdate(docID, &gdocs.BatchUpdateDocumentRequest{
		Requests: []*gdocs.Request{{
			InsertText: &gdocs.InsertTextRequest{
				Location: &gdocs.Location{Index: 1},
				Text:     CombinedBody(resumeText, coverText),
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return Doc{}, fmt.Errorf("failed to fill document %s: %w", docID, err)
	}

	_, err = s.drive.Files.Update(docID, &gdrive.File{}).
		AddParents(folderID).
		Fields("id", "parents").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return Doc{}, fmt.Errorf("failed to move document %s to folder: %w", docID, err)
	}

	return Doc{ID: docID, URL: URLFor(docID)}, nil
}

// Update replaces an existing document's body with fresh content.
func (s *Service) Update(ctx context.Context, docID, resumeText, coverText string) (Doc, error) {
	doc, err := s.docs.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return Doc{}, fmt.Errorf("failed to get document %s: %w", docID, err)
	}

	var endIndex int64 = 1
	if doc.Body != nil && len(doc.Body.Content) > 0 {
		endIndex = doc.Body.Content[len(doc.Body.Content)-1].EndIndex
	}

	var requests []*gdocs.Request
	// The document always retains a trailing newline at its final index, so
	// the deletable range stops one short of the end.
	if endIndex > 2 {
		requests = append(requests, &gdocs.Request{
			DeleteContentRange: &gdocs.DeleteContentRangeRequest{
				Range: &gdocs.Range{StartIndex: 1, EndIndex: endIndex - 1},
			},
		})
	}
	requests = append(requests, &gdocs.Request{
		InsertText: &gdocs.InsertTextRequest{
			Location: &gdocs.Location{Index: 1},
			Text:     CombinedBody(resumeText, coverText),
		},
	})

	_, err = s.docs.Documents.BatchUpdate(docID, &gdocs.BatchUpdateDocumentRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return Doc{}, fmt.Errorf("failed to update document %s: %w", docID, err)
	}

	return Doc{ID: docID, URL: URLFor(docID)}, nil
}

// CombinedBody lays out the document text: cover letter section, page-break
// marker, resume section.
func CombinedBody(resumeText, coverText string) string {
	return fmt.Sprintf("COVER LETTER\n\n%s\n\n%s\n\nRESUME\n\n%s", coverText, PageBreakMarker, resumeText)
}

// URLFor returns the shareable URL for a document id.
func URLFor(docID string) string {
	return fmt.Sprintf("https://docs.google.com/document/d/%s/edit", docID)
}
