package rbac

import "sync"

const (
	RoleAdmin                = "admin"
	RoleUser                 = "user"
	RoleDeputyManager        = "deputy_manager"
	RoleAssistantManager     = "assistant_manager"
	RoleManager              = "manager"
	RoleSeniorManager        = "senior_manager"
	RoleSalesManager         = "sales_manager"
	RolePresident            = "president"
	RoleMarketingCoordinator = "marketing_coordinator"
	RoleAGM                  = "agm"
	RoleAccountsExecutive    = "accounts_executive"
	RoleZonalManager         = "zonal_manager"
	RoleTechnicalHead        = "technical_head"
	RoleTester               = "tester"
	RoleTerritoryManager     = "territory_manager"
	RoleSrGeneralManager     = "sr_general_manager"
	RoleBusinessHead         = "business_head"
)

// DefaultRole is assigned to self-registered accounts.
const DefaultRole = RoleUser

const (
	CapProjects         = "projects"
	CapClients          = "clients"
	CapMeetings         = "meetings"
	CapTeam             = "team"
	CapExpensesView     = "expenses_view"
	CapExpensesCreate   = "expenses_create"
	CapExpensesReview   = "expenses_review"
	CapExpensesManage   = "expenses_manage"
	CapExpensesSettings = "expenses_settings"
	CapExpensesReports  = "expenses_reports"
	CapProfile          = "profile"
	CapMyLeaves         = "my_leaves"
	CapTeamLeave        = "team_leave"
	CapLeaveSettings    = "leave_settings"
	CapCompanyProfile   = "company_profile"
	CapAttendance       = "attendance"
	CapEmployees        = "employees"
	CapCategories       = "categories"
	CapDepartment       = "department"
	CapBranches         = "branches"
	CapHoliday          = "holiday"
	CapBilling          = "billing"
)

var managementAccess = []string{
	CapabilityDashboard, CapProjects, CapClients, CapTeam, CapMeetings,
	CapExpensesView, CapExpensesCreate, CapExpensesReview, CapExpensesReports,
	CapProfile, CapMyLeaves,
}

var fieldAccess = []string{
	CapabilityDashboard, CapProjects, CapClients, CapTeam,
	CapExpensesView, CapExpensesCreate, CapProfile, CapMyLeaves,
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return DefaultBuilder().MustBuild()
})

// Default returns the process-wide registry, built on first use.
func Default() *Registry {
	return defaultRegistry()
}

// DefaultBuilder holds the product's role table. Callers may extend it before
// building, e.g. in tests.
func DefaultBuilder() *Builder {
	b := NewBuilder()

	b.Department("sales", "Sales").
		Department("marketing", "Marketing").
		Department("hr", "Human Resources").
		Department("finance", "Finance").
		Department("it", "Information Technology").
		Department("operations", "Operations").
		Department("specifications", "Specifications").
		Department("business_development", "Business Development").
		Department("accounts", "Accounts").
		Department("technical", "Technical").
		Department("testing", "Testing").
		Department("territory", "Territory").
		Department("general_management", "General Management").
		Department("head_office", "Head Office").
		Department("", "No Department")

	b.Capability(CapabilityDashboard, "Dashboard").
		Capability(CapProjects, "Projects").
		Capability(CapClients, "Clients").
		Capability(CapMeetings, "Meetings").
		Capability(CapTeam, "Team").
		Capability(CapExpensesView, "Expenses - View/Submit").
		Capability(CapExpensesCreate, "Expenses - Create").
		Capability(CapExpensesReview, "Expenses - Review").
		Capability(CapExpensesManage, "Expenses - Manage Categories").
		Capability(CapExpensesSettings, "Expenses - Settings").
		Capability(CapExpensesReports, "Expenses - Reports").
		Capability(CapProfile, "Profile").
		Capability(CapMyLeaves, "My Leave").
		Capability(CapTeamLeave, "Team Leave").
		Capability(CapLeaveSettings, "Leave Settings").
		Capability(CapCompanyProfile, "Company Profile").
		Capability(CapAttendance, "Attendance").
		Capability(CapEmployees, "Employees").
		Capability(CapCategories, "Categories").
		Capability(CapDepartment, "Department").
		Capability(CapBranches, "Branches").
		Capability(CapHoliday, "Holiday").
		Capability(CapBilling, "Billing")

	b.Role(RoleDeputyManager, "Deputy Manager", "", LevelManagement, managementAccess...).
		Role(RoleAssistantManager, "Assistant Manager", "", LevelManagement, managementAccess...).
		Role(RoleManager, "Manager", "", LevelManagement, managementAccess...).
		Role(RoleSeniorManager, "Senior Manager", "", LevelSeniorManagement, managementAccess...).
		Role(RoleSalesManager, "Sales Manager", "", LevelManagement, managementAccess...).
		Role(RolePresident, "President", "", LevelExecutive,
			CapabilityDashboard, CapProjects, CapClients, CapMeetings, CapTeam,
			CapExpensesView, CapExpensesCreate, CapExpensesReview, CapExpensesReports,
			CapCompanyProfile, CapProfile, CapMyLeaves).
		Role(RoleMarketingCoordinator, "Marketing Coordinator", "", LevelExecutive, fieldAccess...).
		Role(RoleAGM, "AGM", "", LevelSeniorManagement, managementAccess...).
		Role(RoleAccountsExecutive, "Accounts Executive", "", LevelExecutive,
			CapabilityDashboard, CapExpensesView, CapExpensesCreate, CapExpensesReview,
			CapExpensesReports, CapExpensesManage, CapExpensesSettings, CapProfile, CapMyLeaves).
		Role(RoleZonalManager, "Zonal Manager", "", LevelManagement, managementAccess...).
		Role(RoleTechnicalHead, "Technical Head", "", LevelManagement,
			CapabilityDashboard, CapProjects, CapClients, CapTeam, CapMeetings,
			CapExpensesView, CapExpensesCreate, CapProfile, CapMyLeaves).
		Role(RoleTester, "Tester", "", LevelStaff,
			CapabilityDashboard, CapProjects, CapTeam, CapExpensesView, CapExpensesCreate,
			CapProfile, CapMyLeaves).
		Role(RoleTerritoryManager, "Territory Manager", "", LevelManagement, fieldAccess...).
		Role(RoleSrGeneralManager, "Sr. General Manager", "", LevelSeniorManagement, managementAccess...).
		Role(RoleBusinessHead, "Business Head", "", LevelExecutive, managementAccess...)

	// Everything except meetings.
	b.Role(RoleAdmin, "Administrator", "", LevelSystem,
		CapabilityDashboard, CapProjects, CapClients, CapTeam,
		CapExpensesView, CapExpensesCreate, CapExpensesReview, CapExpensesReports,
		CapExpensesManage, CapExpensesSettings, CapProfile, CapMyLeaves,
		CapTeamLeave, CapLeaveSettings, CapCompanyProfile, CapAttendance,
		CapEmployees, CapCategories, CapDepartment, CapBranches, CapHoliday, CapBilling).
		Role(RoleUser, "User", "", LevelBasic,
			CapabilityDashboard, CapTeam, CapExpensesView, CapExpensesCreate, CapProfile, CapMyLeaves)

	return b
}
