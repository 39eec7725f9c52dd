package models

import "time"

// DocumentType classifies an uploaded supporting document.
type DocumentType string

const (
	DocTypeTranscript     DocumentType = "transcript"
	DocTypeCertificate    DocumentType = "certificate"
	DocTypeIDCopy         DocumentType = "id_copy"
	DocTypeBirthCert      DocumentType = "birth_certificate"
	DocTypePassportPhoto  DocumentType = "passport_photo"
	DocTypeRecommendation DocumentType = "recommendation_letter"
	DocTypeOther          DocumentType = "other"
)

// DocumentTypes lists the accepted document kinds in display order.
var DocumentTypes = []DocumentType{
	DocTypeTranscript,
	DocTypeCertificate,
	DocTypeIDCopy,
	DocTypeBirthCert,
	DocTypePassportPhoto,
	DocTypeRecommendation,
	DocTypeOther,
}

// ValidDocumentType reports whether t is one of the accepted kinds.
func ValidDocumentType(t DocumentType) bool {
	for _, dt := range DocumentTypes {
		if dt == t {
			return true
		}
	}
	return false
}

// Document is a supporting file attached to exactly one application.
// Documents sync independently of their owning application.
type Document struct {
	ID            string       `json:"id"`
	ApplicationID string       `json:"applicationId" validate:"required"`
	Name          string       `json:"name" validate:"required"`
	Type          DocumentType `json:"type" validate:"required"`
	Size          int64        `json:"size"`
	Payload       []byte       `json:"payload,omitempty"`
	Synced        bool         `json:"synced"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}
