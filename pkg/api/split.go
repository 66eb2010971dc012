package api

// Amounts are integer cents.

type LineItem struct {
	Id         string   `json:"id"`
	Name       string   `json:"name"`
	PriceCents int64    `json:"priceCents"`
	AssignedTo []string `json:"assignedTo"`
}

type CreateSessionRequest struct{}

type CreateSessionResponse struct {
	SessionId string         `json:"sessionId"`
	Party     []*Participant `json:"party"`
}

type GetSessionRequest struct {
	SessionId string `json:"sessionId"`
}

type GetSessionResponse struct {
	SessionId string         `json:"sessionId"`
	Party     []*Participant `json:"party"`
	Items     []*LineItem    `json:"items"`
}

type CloseSessionRequest struct {
	SessionId string `json:"sessionId"`
}

type CloseSessionResponse struct{}

// Candidate is an ad hoc participant offered for selection, such as a
// phone contact.
type Candidate struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// FriendSelection refers to one of the caller's saved friends.
type FriendSelection struct {
	FriendId string `json:"friendId"`
	Selected bool   `json:"selected"`
}

// GroupSelection refers to one of the caller's saved groups.
type GroupSelection struct {
	GroupId  string `json:"groupId"`
	Selected bool   `json:"selected"`
}

type ResolveGroupRequest struct {
	SessionId  string             `json:"sessionId"`
	Contacts   []*Candidate       `json:"contacts"`
	Friends    []*FriendSelection `json:"friends"`
	Groups     []*GroupSelection  `json:"groups"`
	Deselected []string           `json:"deselected"`
}

type ResolveGroupResponse struct {
	Party []*Participant `json:"party"`
	Items []*LineItem    `json:"items"`
}

type AddItemRequest struct {
	SessionId string `json:"sessionId"`
	Name      string `json:"name"`
	// Price is free-form user input such as "$12.50" or "1,299".
	Price string `json:"price"`
}

type AddItemResponse struct {
	Item *LineItem `json:"item"`
}

type UpdateItemRequest struct {
	SessionId string `json:"sessionId"`
	ItemId    string `json:"itemId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
}

type UpdateItemResponse struct {
	Item *LineItem `json:"item"`
}

type RemoveItemRequest struct {
	SessionId string `json:"sessionId"`
	ItemId    string `json:"itemId"`
}

type RemoveItemResponse struct{}

type ToggleAssignmentRequest struct {
	SessionId     string `json:"sessionId"`
	ItemId        string `json:"itemId"`
	ParticipantId string `json:"participantId"`
}

type ToggleAssignmentResponse struct {
	ItemId     string   `json:"itemId"`
	AssignedTo []string `json:"assignedTo"`
}

type ComputeSplitRequest struct {
	SessionId string `json:"sessionId"`
}

type ShareItem struct {
	ItemId      string `json:"itemId"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"priceCents"`
	ShareCount  int32  `json:"shareCount"`
	AmountCents int64  `json:"amountCents"`
}

type PersonShare struct {
	Participant   *Participant `json:"participant"`
	Items         []*ShareItem `json:"items"`
	SubtotalCents int64        `json:"subtotalCents"`
	TaxCents      int64        `json:"taxCents"`
	TipCents      int64        `json:"tipCents"`
	TotalCents    int64        `json:"totalCents"`
}

type Totals struct {
	SubtotalCents         int64 `json:"subtotalCents"`
	AssignedSubtotalCents int64 `json:"assignedSubtotalCents"`
	TaxCents              int64 `json:"taxCents"`
	TipCents              int64 `json:"tipCents"`
	TotalCents            int64 `json:"totalCents"`
}

type DebtEdge struct {
	From        string `json:"from"`
	To          string `json:"to"`
	AmountCents int64  `json:"amountCents"`
}

type ComputeSplitResponse struct {
	PerPerson   []*PersonShare `json:"perPerson"`
	Totals      *Totals        `json:"totals"`
	Settlements []*DebtEdge    `json:"settlements"`
}

type StartIngestionRequest struct {
	SessionId string `json:"sessionId"`
	Filename  string `json:"filename"`
	Image     []byte `json:"image"`
}

// IngestionStatus reports the session's current ingestion job.
// State is one of idle, uploading, polling, completed, failed, timed_out
// or cancelled.
type IngestionStatus struct {
	State     string `json:"state"`
	ReceiptId string `json:"receiptId"`
	Attempts  int32  `json:"attempts"`
	Error     string `json:"error,omitempty"`
}

type StartIngestionResponse struct {
	Ingestion *IngestionStatus `json:"ingestion"`
}

type GetIngestionRequest struct {
	SessionId string `json:"sessionId"`
}

type GetIngestionResponse struct {
	Ingestion *IngestionStatus `json:"ingestion"`
	Items     []*LineItem      `json:"items"`
}
