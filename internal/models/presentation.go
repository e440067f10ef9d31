package models

// Presentation is the label and badge class shown for an enum value
type Presentation struct {
	Label string `json:"label"`
	Badge string `json:"badge"`
}

const unknownBadge = "badge-secondary"

var bookingStatusPresentations = map[BookingStatus]Presentation{
	BookingPending:   {Label: "Pending", Badge: "badge-warning"},
	BookingConfirmed: {Label: "Confirmed", Badge: "badge-success"},
	BookingCancelled: {Label: "Cancelled", Badge: "badge-danger"},
}

var paymentStatusPresentations = map[PaymentStatus]Presentation{
	PaymentPending:   {Label: "Pending", Badge: "badge-warning"},
	PaymentCompleted: {Label: "Completed", Badge: "badge-success"},
	PaymentFailed:    {Label: "Failed", Badge: "badge-danger"},
	PaymentRefunded:  {Label: "Refunded", Badge: "badge-info"},
}

var approvalStatusPresentations = map[ApprovalStatus]Presentation{
	ApprovalPending:  {Label: "Pending review", Badge: "badge-warning"},
	ApprovalApproved: {Label: "Approved", Badge: "badge-success"},
	ApprovalRejected: {Label: "Rejected", Badge: "badge-danger"},
}

var userRolePresentations = map[UserRole]Presentation{
	UserRoleUser:      {Label: "User", Badge: "badge-primary"},
	UserRoleOrganizer: {Label: "Organizer", Badge: "badge-info"},
	UserRoleAdmin:     {Label: "Admin", Badge: "badge-danger"},
}

var flowStatePresentations = map[FlowState]Presentation{
	FlowCreated:              {Label: "Booking created", Badge: "badge-info"},
	FlowPaymentPending:       {Label: "Awaiting payment", Badge: "badge-warning"},
	FlowConfirmed:            {Label: "Paid", Badge: "badge-success"},
	FlowCancelled:            {Label: "Cancelled", Badge: "badge-danger"},
	FlowExpired:              {Label: "Expired", Badge: "badge-dark"},
	FlowReconciliationFailed: {Label: "Needs attention", Badge: "badge-danger"},
}

func present[K ~string](table map[K]Presentation, value K) Presentation {
	if p, ok := table[value]; ok {
		return p
	}
	return Presentation{Label: string(value), Badge: unknownBadge}
}

// BookingStatusPresentation returns the presentation of a booking status
func BookingStatusPresentation(s BookingStatus) Presentation {
	return present(bookingStatusPresentations, s)
}

// PaymentStatusPresentation returns the presentation of a payment status
func PaymentStatusPresentation(s PaymentStatus) Presentation {
	return present(paymentStatusPresentations, s)
}

// ApprovalStatusPresentation returns the presentation of an approval status
func ApprovalStatusPresentation(s ApprovalStatus) Presentation {
	return present(approvalStatusPresentations, s)
}

// UserRolePresentation returns the presentation of a user role
func UserRolePresentation(r UserRole) Presentation {
	return present(userRolePresentations, r)
}

// FlowStatePresentation returns the presentation of a checkout flow state
func FlowStatePresentation(s FlowState) Presentation {
	return present(flowStatePresentations, s)
}
