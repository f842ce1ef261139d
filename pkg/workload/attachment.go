package workload

import "github.com/Taskana/TaskanaTestDataGenerator/pkg/models"

// DefaultAttachmentReferences is the ring size used for attachment object
// references.
const DefaultAttachmentReferences = 50

// AttachmentBuilder creates attachments with document classifications picked
// round-robin.
type AttachmentBuilder struct {
	documents []*models.Classification
	refs      *ReferenceRing
	limit     int
	created   int
	picked    int
}

// NewAttachmentBuilder creates at most limit attachments over its lifetime;
// zero means unlimited.
func NewAttachmentBuilder(documents []*models.Classification, refs *ReferenceRing, limit int) *AttachmentBuilder {
	if refs == nil {
		refs = NewReferenceRing(DefaultAttachmentReferences)
	}
	return &AttachmentBuilder{documents: documents, refs: refs, limit: limit}
}

// Attachments returns up to n attachments, fewer once the limit is reached.
func (b *AttachmentBuilder) Attachments(n int) []models.Attachment {
	if n <= 0 || len(b.documents) == 0 {
		return nil
	}
	var out []models.Attachment
	for i := 0; i < n; i++ {
		if b.limit > 0 && b.created >= b.limit {
			break
		}
		b.created++
		doc := b.documents[b.picked%len(b.documents)]
		b.picked++
		out = append(out, models.Attachment{Classification: doc, ObjectRef: b.refs.Next()})
	}
	return out
}

func (b *AttachmentBuilder) Created() int {
	return b.created
}
