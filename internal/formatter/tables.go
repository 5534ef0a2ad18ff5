package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
)

func timePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return shared.FormatTime(*t)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// JobSchedule renders a schedule for display, e.g. "daily (UTC)" or "0 3 * * 1 (Europe/Berlin)".
func JobSchedule(s models.JobSchedule) string {
	what := s.Frequency
	if s.Frequency == models.FrequencyCustom {
		what = s.Cron
	}
	if s.Timezone != "" && s.Frequency != models.FrequencyManual {
		what += " (" + s.Timezone + ")"
	}
	return orDash(what)
}

func JobsTable(jobs []models.Job) *Table {
	t := &Table{Title: "Jobs", Headers: []string{"ID", "Name", "Type", "Status", "Schedule", "Last Run", "Next Run"}}
	for _, j := range jobs {
		t.Rows = append(t.Rows, []string{
			j.ID,
			shared.Truncate(j.Name, 40),
			j.Type,
			j.Status,
			JobSchedule(j.Schedule),
			timePtr(j.LastRunAt),
			timePtr(j.NextRunAt),
		})
	}
	return t
}

func RunsTable(runs []models.JobRun) *Table {
	t := &Table{Title: "Runs", Headers: []string{"Run", "Status", "Started", "Duration", "Records", "Bytes", "Error"}}
	for _, r := range runs {
		duration := "-"
		if d := r.Duration(); d > 0 {
			duration = d.Round(time.Second).String()
		}
		t.Rows = append(t.Rows, []string{
			r.RunID,
			r.Status,
			shared.FormatTime(r.StartedAt),
			duration,
			strconv.FormatInt(r.RecordsProcessed, 10),
			shared.FormatBytes(r.BytesProcessed),
			shared.Truncate(orDash(r.Error), 40),
		})
	}
	return t
}

func SourcesTable(sources []models.Source) *Table {
	t := &Table{Title: "Sources", Headers: []string{"ID", "Name", "Type", "Status", "Last Sync"}}
	for _, s := range sources {
		t.Rows = append(t.Rows, []string{s.ID, shared.Truncate(s.Name, 40), s.Type, s.Status, timePtr(s.LastSyncAt)})
	}
	return t
}

func AccountsTable(accounts []models.Account) *Table {
	t := &Table{Title: "Accounts", Headers: []string{"ID", "Name", "Parent", "Level", "Plan", "Status"}}
	for _, a := range accounts {
		name := strings.Repeat("  ", max(a.Level, 0)) + a.Name
		t.Rows = append(t.Rows, []string{a.ID, name, orDash(a.ParentID), strconv.Itoa(a.Level), orDash(a.Plan), orDash(a.Status)})
	}
	return t
}

func AccountUsersTable(users []models.AccountUser) *Table {
	t := &Table{Title: "Users", Headers: []string{"ID", "Email", "Name", "Role", "Status", "Joined"}}
	for _, u := range users {
		t.Rows = append(t.Rows, []string{u.UserID, u.Email, orDash(u.Name), u.Role, u.Status, shared.FormatTime(u.JoinedAt)})
	}
	return t
}

func ClientsTable(clients []models.Client) *Table {
	t := &Table{Title: "Clients", Headers: []string{"ID", "Name", "Type", "Contact", "Plan", "Status", "Accounts"}}
	for _, c := range clients {
		t.Rows = append(t.Rows, []string{
			c.ID, shared.Truncate(c.Name, 40), c.Type, c.ContactEmail, orDash(c.Plan), c.Status, strconv.Itoa(len(c.AccountIDs)),
		})
	}
	return t
}

func TeamsTable(teams []models.Team) *Table {
	t := &Table{Title: "Teams", Headers: []string{"ID", "Name", "Members", "Description"}}
	for _, tm := range teams {
		t.Rows = append(t.Rows, []string{tm.ID, tm.Name, strconv.Itoa(tm.MemberCount), shared.Truncate(orDash(tm.Description), 50)})
	}
	return t
}

func MembersTable(members []models.TeamMember) *Table {
	t := &Table{Title: "Members", Headers: []string{"User", "Email", "Name", "Role", "Status"}}
	for _, m := range members {
		t.Rows = append(t.Rows, []string{m.UserID, m.Email, orDash(m.Name), m.Role, m.Status})
	}
	return t
}

func RolesTable(roles []models.Role) *Table {
	t := &Table{Title: "Roles", Headers: []string{"ID", "Name", "Permissions"}}
	for _, r := range roles {
		t.Rows = append(t.Rows, []string{orDash(r.RoleID), r.Name, strings.Join(r.Permissions, ", ")})
	}
	return t
}

func DomainsTable(domains []models.Domain) *Table {
	t := &Table{Title: "Domains", Headers: []string{"ID", "Domain", "Type", "Status", "SSL", "Verified"}}
	for _, d := range domains {
		t.Rows = append(t.Rows, []string{d.ID, d.Domain, d.Type, d.Status, orDash(d.SSLStatus), timePtr(d.VerifiedAt)})
	}
	return t
}

func DNSRecordsTable(records []models.DNSRecord) *Table {
	t := &Table{Title: "DNS Records", Headers: []string{"Type", "Name", "Value", "TTL", "Status"}}
	for _, r := range records {
		ttl := "-"
		if r.TTL > 0 {
			ttl = strconv.Itoa(r.TTL)
		}
		t.Rows = append(t.Rows, []string{r.Type, r.Name, r.Value, ttl, orDash(r.Status)})
	}
	return t
}

func AuditTable(events []models.AuditEvent) *Table {
	t := &Table{Title: "Audit Log", Headers: []string{"Time", "Actor", "Action", "Resource"}}
	for _, e := range events {
		actor := e.ActorEmail
		if actor == "" {
			actor = e.ActorID
		}
		resource := e.Resource
		if e.ResourceID != "" {
			resource += "/" + e.ResourceID
		}
		t.Rows = append(t.Rows, []string{shared.FormatTime(e.Timestamp), actor, e.Action, resource})
	}
	return t
}

func HealthTable(h *models.SystemHealth) *Table {
	t := &Table{Title: fmt.Sprintf("System %s", h.Status), Headers: []string{"Service", "Status", "Latency", "Message"}}
	for _, s := range h.Services {
		t.Rows = append(t.Rows, []string{s.Name, s.Status, fmt.Sprintf("%dms", s.LatencyMs), orDash(s.Message)})
	}
	return t
}

func MetricsTable(m *models.SystemMetrics) *Table {
	return &Table{
		Title:   "Metrics",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Accounts", strconv.Itoa(m.Accounts)},
			{"Users", strconv.Itoa(m.Users)},
			{"Sources", strconv.Itoa(m.Sources)},
			{"Jobs", strconv.Itoa(m.Jobs)},
			{"Active jobs", strconv.Itoa(m.ActiveJobs)},
			{"Runs (24h)", strconv.Itoa(m.RunsLast24h)},
			{"Failed runs (24h)", strconv.Itoa(m.FailedRunsLast24h)},
			{"Storage", shared.FormatBytes(m.StorageBytes)},
		},
	}
}

// KeyValueTable renders a single record as a two column table.
func KeyValueTable(title string, pairs ...string) *Table {
	t := &Table{Title: title, Headers: []string{"Field", "Value"}}
	for i := 0; i+1 < len(pairs); i += 2 {
		t.Rows = append(t.Rows, []string{pairs[i], orDash(pairs[i+1])})
	}
	return t
}

func AccountDetail(a *models.Account) *Table {
	parent := a.ParentID
	if a.IsRoot() {
		parent = "- (root)"
	}
	return KeyValueTable("Account",
		"ID", a.ID,
		"Name", a.Name,
		"Company", a.Company,
		"Parent", parent,
		"Path", a.Path,
		"Plan", a.Plan,
		"Status", a.Status,
		"Created", shared.FormatTime(a.CreatedAt),
	)
}

func BrandingDetail(b *models.Branding) *Table {
	return KeyValueTable("Branding",
		"Company", b.CompanyName,
		"Logo", b.LogoURL,
		"Favicon", b.FaviconURL,
		"Primary", b.PrimaryColor,
		"Secondary", b.SecondaryColor,
		"Accent", b.AccentColor,
		"Support email", b.SupportEmail,
	)
}

func UserDetail(u *models.User) *Table {
	return KeyValueTable("User",
		"ID", u.UserID,
		"Email", u.Email,
		"Name", u.Name,
		"Role", u.Role,
		"Account", u.CurrentAccountID,
	)
}
