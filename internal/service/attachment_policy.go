package service

import (
	"fmt"

	"github.com/studiokit/portal/internal/config"
	"github.com/studiokit/portal/internal/domain"
	"github.com/studiokit/portal/pkg/util"
)

// FileCandidate describes a file before it becomes an attachment.
type FileCandidate struct {
	FileName  string
	SizeBytes int64
	MimeType  string
}

// AttachmentPolicy validates candidate files against the attachment rules.
// It is a pure function of its inputs plus configuration; every rule is
// evaluated and every violation reported, never short-circuited.
type AttachmentPolicy struct {
	MaxFileSizeBytes int64
	MaxPerTicket     int
	MaxPerComment    int
	AllowedMimeTypes map[string]struct{}
}

func allowedMimeTypes() map[string]struct{} {
	types := []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain",
		"text/csv",
		"application/json",
		"application/xml",
	}
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

// NewAttachmentPolicy builds a policy from configuration.
func NewAttachmentPolicy(cfg config.AttachmentsConfig) AttachmentPolicy {
	policy := AttachmentPolicy{
		MaxFileSizeBytes: cfg.MaxFileSizeBytes,
		MaxPerTicket:     cfg.MaxPerTicket,
		MaxPerComment:    cfg.MaxPerComment,
		AllowedMimeTypes: allowedMimeTypes(),
	}
	if policy.MaxFileSizeBytes <= 0 {
		policy.MaxFileSizeBytes = 10 * 1024 * 1024
	}
	if policy.MaxPerTicket <= 0 {
		policy.MaxPerTicket = 5
	}
	if policy.MaxPerComment <= 0 {
		policy.MaxPerComment = 3
	}
	return policy
}

// DefaultAttachmentPolicy returns the policy with stock limits.
func DefaultAttachmentPolicy() AttachmentPolicy {
	return NewAttachmentPolicy(config.AttachmentsConfig{})
}

// CheckForTicket validates candidates joining a ticket's attachment set.
func (p AttachmentPolicy) CheckForTicket(candidates []FileCandidate, existing []domain.Attachment) []string {
	return p.check(candidates, existing, p.MaxPerTicket, "ticket")
}

// CheckForComment validates candidates joining a comment's attachment set.
func (p AttachmentPolicy) CheckForComment(candidates []FileCandidate, existing []domain.Attachment) []string {
	return p.check(candidates, existing, p.MaxPerComment, "comment")
}

// ValidateForTicket wraps CheckForTicket into the error taxonomy.
func (p AttachmentPolicy) ValidateForTicket(candidates []FileCandidate, existing []domain.Attachment) error {
	if reasons := p.CheckForTicket(candidates, existing); len(reasons) > 0 {
		return util.NewAttachmentRejected(reasons)
	}
	return nil
}

// ValidateForComment wraps CheckForComment into the error taxonomy.
func (p AttachmentPolicy) ValidateForComment(candidates []FileCandidate, existing []domain.Attachment) error {
	if reasons := p.CheckForComment(candidates, existing); len(reasons) > 0 {
		return util.NewAttachmentRejected(reasons)
	}
	return nil
}

func (p AttachmentPolicy) check(candidates []FileCandidate, existing []domain.Attachment, max int, target string) []string {
	reasons := []string{}

	if len(existing)+len(candidates) > max {
		reasons = append(reasons, fmt.Sprintf(
			"adding %d file(s) exceeds the maximum of %d attachments per %s",
			len(candidates), max, target))
	}

	type nameSize struct {
		name string
		size int64
	}
	seen := make(map[nameSize]struct{}, len(existing))
	for _, att := range existing {
		seen[nameSize{att.FileName, att.SizeBytes}] = struct{}{}
	}

	for _, candidate := range candidates {
		if candidate.SizeBytes > p.MaxFileSizeBytes {
			reasons = append(reasons, fmt.Sprintf(
				"%s: file size %d bytes exceeds the maximum of %d bytes",
				candidate.FileName, candidate.SizeBytes, p.MaxFileSizeBytes))
		}
		if _, ok := p.AllowedMimeTypes[candidate.MimeType]; !ok {
			reasons = append(reasons, fmt.Sprintf(
				"%s: file type %q is not allowed", candidate.FileName, candidate.MimeType))
		}
		key := nameSize{candidate.FileName, candidate.SizeBytes}
		if _, dup := seen[key]; dup {
			reasons = append(reasons, fmt.Sprintf(
				"%s: duplicate of an existing attachment with the same name and size",
				candidate.FileName))
		}
		seen[key] = struct{}{}
	}

	return reasons
}
