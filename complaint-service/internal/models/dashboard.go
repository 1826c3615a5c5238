package models

type ComplaintCounts struct {
	TotalComplaints      int64 `json:"totalComplaints"`
	PendingComplaints    int64 `json:"pendingComplaints"`
	InProgressComplaints int64 `json:"inProgressComplaints"`
	ResolvedComplaints   int64 `json:"resolvedComplaints"`
	RejectedComplaints   int64 `json:"rejectedComplaints"`
}

type AdminCounts struct {
	ComplaintCounts
	TotalUsers       int64 `json:"totalUsers"`
	CitizenUsers     int64 `json:"citizenUsers"`
	InstitutionUsers int64 `json:"institutionUsers"`
	PendingApprovals int64 `json:"pendingApprovals"`
	TotalCategories  int64 `json:"totalCategories"`
}

type StatusCount struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}

// CategoryCount is one row of the per-category breakdown. ID is empty when
// the complaints point at a category that no longer exists.
type CategoryCount struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Count int64  `bson:"count" json:"count"`
}

// MonthBucket is a calendar month as grouped by the store, Month being 1-12.
type MonthBucket struct {
	Year  int   `bson:"year"`
	Month int   `bson:"month"`
	Count int64 `bson:"count"`
}

type MonthCount struct {
	Month string `json:"month"`
	Year  int    `json:"year"`
	Count int64  `json:"count"`
}

// ResponseTimes are hours between creation and the last update of handled
// complaints.
type ResponseTimes struct {
	AverageResponseTime float64 `bson:"averageResponseTime" json:"averageResponseTime"`
	MinResponseTime     float64 `bson:"minResponseTime" json:"minResponseTime"`
	MaxResponseTime     float64 `bson:"maxResponseTime" json:"maxResponseTime"`
}

type AdminDashboard struct {
	Counts               AdminCounts     `json:"counts"`
	RecentComplaints     []ComplaintView `json:"recentComplaints"`
	ComplaintsByCategory []CategoryCount `json:"complaintsByCategory"`
	ComplaintsByStatus   []StatusCount   `json:"complaintsByStatus"`
	ComplaintsByMonth    []MonthCount    `json:"complaintsByMonth"`
}

type InstitutionDashboard struct {
	Counts               ComplaintCounts `json:"counts"`
	RecentComplaints     []ComplaintView `json:"recentComplaints"`
	ComplaintsByCategory []CategoryCount `json:"complaintsByCategory"`
	ComplaintsByStatus   []StatusCount   `json:"complaintsByStatus"`
	ResponseTimeMetrics  ResponseTimes   `json:"responseTimeMetrics"`
}
