package models

// Badge represents an achievement badge that users earn by reaching
// milestones in their learning journey. The badge set is closed: every
// badge is computable from the user's payments and enrollments alone.
type Badge struct {
	ID            string `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	Description   string `json:"description" db:"description"`
	Icon          string `json:"icon" db:"icon"`
	CriteriaType  string `json:"criteria_type" db:"-"`
	CriteriaValue int64  `json:"criteria_value" db:"-"`
}

// Badge criteria types.
const (
	CriteriaPaymentCount       = "payment_count"
	CriteriaEnrollmentCount    = "enrollment_count"
	CriteriaTotalSpent         = "total_spent"
	CriteriaDistinctCategories = "distinct_categories"
)

// Badge IDs.
const (
	BadgeFirstCourse     = "first_course"
	BadgeCourseCollector = "course_collector"
	BadgeSmartSpender    = "smart_spender"
	BadgeExplorer        = "explorer"
)

// AllBadges is the complete badge catalog in a stable order.
var AllBadges = []Badge{
	{
		ID:            BadgeFirstCourse,
		Name:          "First Course",
		Description:   "Membeli course pertama",
		Icon:          "🎓",
		CriteriaType:  CriteriaPaymentCount,
		CriteriaValue: 1,
	},
	{
		ID:            BadgeCourseCollector,
		Name:          "Course Collector",
		Description:   "Terdaftar di 3 course atau lebih",
		Icon:          "📚",
		CriteriaType:  CriteriaEnrollmentCount,
		CriteriaValue: 3,
	},
	{
		ID:            BadgeSmartSpender,
		Name:          "Smart Spender",
		Description:   "Total pembelian mencapai Rp 500.000",
		Icon:          "💰",
		CriteriaType:  CriteriaTotalSpent,
		CriteriaValue: 500000,
	},
	{
		ID:            BadgeExplorer,
		Name:          "Explorer",
		Description:   "Belajar dari 3 kategori berbeda",
		Icon:          "🧭",
		CriteriaType:  CriteriaDistinctCategories,
		CriteriaValue: 3,
	},
}

// BadgeByID looks up a badge from the catalog. The second return value is
// false for unknown IDs.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range AllBadges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// BadgeProgress is the aggregate state badges are evaluated against.
type BadgeProgress struct {
	PaymentCount       int64
	EnrollmentCount    int64
	TotalSpent         int64
	DistinctCategories int64
}

// Earned reports whether the badge criteria are met by the given progress.
func (b Badge) Earned(p BadgeProgress) bool {
	switch b.CriteriaType {
	case CriteriaPaymentCount:
		return p.PaymentCount >= b.CriteriaValue
	case CriteriaEnrollmentCount:
		return p.EnrollmentCount >= b.CriteriaValue
	case CriteriaTotalSpent:
		return p.TotalSpent >= b.CriteriaValue
	case CriteriaDistinctCategories:
		return p.DistinctCategories >= b.CriteriaValue
	}
	return false
}
