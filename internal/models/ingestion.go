package models

// JobStatus is the status reported by the OCR service for a receipt.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// IngestionJob tracks one uploaded receipt image on the OCR service.
type IngestionJob struct {
	// ReceiptID is assigned by the OCR service on upload.
	ReceiptID string

	Status JobStatus

	// ProcessedData is set once Status is JobCompleted. Items carry no
	// assignments; assignment is purely client-side.
	ProcessedData *Receipt
}
