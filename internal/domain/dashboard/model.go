package dashboard

// EnquiryStats aggregates a clinic's lead funnel. AvgHoursToFirstAction is
// nil until at least one enquiry has moved out of submitted.
type EnquiryStats struct {
	Total                 int            `json:"total"`
	ByStatus              map[string]int `json:"byStatus"`
	Last30Days            int            `json:"last30Days"`
	AvgHoursToFirstAction *float64       `json:"avgHoursToFirstAction"`
}
