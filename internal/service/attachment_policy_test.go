package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiokit/portal/internal/domain"
	"github.com/studiokit/portal/pkg/util"
)

func pdfCandidate(name string, size int64) FileCandidate {
	return FileCandidate{FileName: name, SizeBytes: size, MimeType: "application/pdf"}
}

func TestPolicyAcceptsValidFiles(t *testing.T) {
	policy := DefaultAttachmentPolicy()

	reasons := policy.CheckForTicket([]FileCandidate{
		pdfCandidate("invoice.pdf", 512),
		{FileName: "screenshot.png", SizeBytes: 2048, MimeType: "image/png"},
		{FileName: "log.txt", SizeBytes: 100, MimeType: "text/plain"},
	}, nil)
	assert.Empty(t, reasons)
}

func TestPolicyRejectsOversizedFile(t *testing.T) {
	policy := DefaultAttachmentPolicy()

	reasons := policy.CheckForTicket([]FileCandidate{
		pdfCandidate("huge.pdf", 10*1024*1024+1),
	}, nil)
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "huge.pdf")
	assert.Contains(t, reasons[0], "exceeds")
}

func TestPolicyAcceptsFileAtSizeLimit(t *testing.T) {
	policy := DefaultAttachmentPolicy()

	reasons := policy.CheckForTicket([]FileCandidate{
		pdfCandidate("exact.pdf", 10*1024*1024),
	}, nil)
	assert.Empty(t, reasons)
}

func TestPolicyRejectsDisallowedMimeType(t *testing.T) {
	policy := DefaultAttachmentPolicy()

	tests := []struct {
		name     string
		mimeType string
	}{
		{"executable", "application/x-msdownload"},
		{"archive", "application/zip"},
		{"video", "video/mp4"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reasons := policy.CheckForTicket([]FileCandidate{
				{FileName: "file.bin", SizeBytes: 10, MimeType: tt.mimeType},
			}, nil)
			require.Len(t, reasons, 1)
			assert.Contains(t, reasons[0], "not allowed")
		})
	}
}

func TestPolicyCollectsAllReasons(t *testing.T) {
	policy := DefaultAttachmentPolicy()
	existing := []domain.Attachment{
		{FileName: "dup.pdf", SizeBytes: 100, MimeType: "application/pdf"},
	}

	// One candidate violating size and type at once, plus a duplicate, plus
	// enough files to blow past the per-ticket limit.
	candidates := []FileCandidate{
		{FileName: "bad.exe", SizeBytes: 20 * 1024 * 1024, MimeType: "application/x-msdownload"},
		pdfCandidate("dup.pdf", 100),
		pdfCandidate("a.pdf", 10),
		pdfCandidate("b.pdf", 10),
		pdfCandidate("c.pdf", 10),
	}

	reasons := policy.CheckForTicket(candidates, existing)
	joined := strings.Join(reasons, "\n")
	assert.GreaterOrEqual(t, len(reasons), 4)
	assert.Contains(t, joined, "maximum of 5 attachments per ticket")
	assert.Contains(t, joined, "exceeds")
	assert.Contains(t, joined, "not allowed")
	assert.Contains(t, joined, "duplicate")
}

func TestPolicyTicketCountLimit(t *testing.T) {
	policy := DefaultAttachmentPolicy()
	existing := make([]domain.Attachment, 5)
	for i := range existing {
		existing[i] = domain.Attachment{FileName: string(rune('a'+i)) + ".pdf", SizeBytes: int64(i + 1)}
	}

	reasons := policy.CheckForTicket([]FileCandidate{pdfCandidate("one-more.pdf", 10)}, existing)
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "maximum of 5")
}

func TestPolicyCommentCountLimit(t *testing.T) {
	policy := DefaultAttachmentPolicy()

	candidates := []FileCandidate{
		pdfCandidate("1.pdf", 1),
		pdfCandidate("2.pdf", 2),
		pdfCandidate("3.pdf", 3),
		pdfCandidate("4.pdf", 4),
	}
	reasons := policy.CheckForComment(candidates, nil)
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "maximum of 3 attachments per comment")

	assert.Empty(t, policy.CheckForComment(candidates[:3], nil))
}

func TestPolicyDuplicateWithinBatch(t *testing.T) {
	policy := DefaultAttachmentPolicy()

	reasons := policy.CheckForTicket([]FileCandidate{
		pdfCandidate("report.pdf", 100),
		pdfCandidate("report.pdf", 100),
	}, nil)
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "duplicate")
}

func TestPolicySameNameDifferentSizeIsNotDuplicate(t *testing.T) {
	policy := DefaultAttachmentPolicy()

	reasons := policy.CheckForTicket([]FileCandidate{
		pdfCandidate("report.pdf", 100),
		pdfCandidate("report.pdf", 200),
	}, nil)
	assert.Empty(t, reasons)
}

func TestValidateWrapsReasonsInError(t *testing.T) {
	policy := DefaultAttachmentPolicy()

	err := policy.ValidateForTicket([]FileCandidate{
		{FileName: "virus.exe", SizeBytes: 10, MimeType: "application/x-msdownload"},
	}, nil)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "ATTACHMENT_REJECTED"))

	domainErr := util.ToDomainError(err)
	reasons, ok := domainErr.Details["reasons"].([]string)
	require.True(t, ok)
	assert.Len(t, reasons, 1)
}
