package main

import (
	"time"

	"AgendaScanner/internal/domain"
	"AgendaScanner/internal/scraper"
)

// demoRecords builds a small fixed set of realistic meetings for local
// development and UI work. Dates are relative so the records always
// land inside the default listing window.
func demoRecords() []domain.MeetingRecord {
	base := time.Now().UTC().AddDate(0, 0, -30).Truncate(24 * time.Hour)

	council := base.AddDate(0, 0, 2)
	planning := base.AddDate(0, 0, 16)
	supervisors := base.AddDate(0, 0, 9)

	return []domain.MeetingRecord{
		{
			RecordID:    scraper.RecordID("wb", &council, "Williamsburg City Council Regular Meeting - Budget Review"),
			Source:      domain.SourceWilliamsburg,
			Title:       "Williamsburg City Council Regular Meeting - Budget Review",
			MeetingDate: &council,
			SourceLink:  "https://williamsburg.civicweb.net/Portal/MeetingDetails.aspx?ID=1234",
			Status:      domain.StatusCompleted,
			RawContent: `WILLIAMSBURG CITY COUNCIL
REGULAR MEETING AGENDA

1. CALL TO ORDER
2. APPROVAL OF MINUTES
3. PUBLIC COMMENT PERIOD
4. OLD BUSINESS
A. Second Reading: Ordinance 2025-07 - Zoning Amendment for Historic District
B. Resolution 2025-15 - Street Improvement Project Funding
5. NEW BUSINESS
A. First Reading: Budget Amendment for FY 2025-26
- Proposed increase in parks and recreation funding by $150,000
- New allocation for downtown streetscape improvements: $300,000
B. Discussion: New Community Center Expansion, estimated cost $2.2 million
C. Resolution 2025-16 - Traffic Calming Measures, estimated cost $45,000
6. DEPARTMENT REPORTS
7. ADJOURNMENT`,
		},
		{
			RecordID:    scraper.RecordID("wb", &planning, "Williamsburg Planning Commission - Development Review"),
			Source:      domain.SourceWilliamsburg,
			Title:       "Williamsburg Planning Commission - Development Review",
			MeetingDate: &planning,
			SourceLink:  "https://williamsburg.civicweb.net/Portal/MeetingDetails.aspx?ID=1235",
			Status:      domain.StatusCompleted,
			RawContent: `WILLIAMSBURG PLANNING COMMISSION
MEETING AGENDA

1. CALL TO ORDER & ROLL CALL
2. APPROVAL OF MINUTES
3. PUBLIC HEARINGS
A. Case PL-2025-08: Special Use Permit for Boutique Hotel at 315 Richmond Road
B. Case PL-2025-09: Subdivision Amendment, Williamsburg Commons Phase III zoning review
4. NEW BUSINESS
5. ADJOURNMENT`,
		},
		{
			RecordID:    scraper.RecordID("jc", &supervisors, "James City County Board of Supervisors Regular Meeting"),
			Source:      domain.SourceJamesCity,
			Title:       "James City County Board of Supervisors Regular Meeting",
			MeetingDate: &supervisors,
			SourceLink:  "https://www.jamescitycountyva.gov/AgendaCenter/ViewFile/Agenda/_07082025-demo",
			Status:      domain.StatusCompleted,
			RawContent: `JAMES CITY COUNTY BOARD OF SUPERVISORS
REGULAR MEETING

1. CALL TO ORDER
2. PUBLIC COMMENT
3. CONSENT AGENDA
A. Resolution - Grant Award for Stormwater Management Fund, $425,000
B. Ordinance Amendment - Short-Term Rental Zoning Districts
4. PUBLIC HEARINGS
A. Budget Amendment - Capital Improvement Program FY26, $3.1 million
5. BOARD CONSIDERATIONS
6. ADJOURNMENT`,
		},
	}
}
