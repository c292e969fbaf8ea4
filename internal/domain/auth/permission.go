package auth

// Permission represents a fine-grained capability token in verb:resource form.
// Permissions are a pure function of role. They are never stored per user and
// never cached independently, so a role change takes effect on the next
// recomputation without a revocation step.
type Permission string

const (
	PermissionViewAdminDashboard Permission = "view:admin-dashboard"
	PermissionManageUniversities Permission = "manage:universities"
	PermissionManagePrograms     Permission = "manage:programs"
	PermissionManageSyllabus     Permission = "manage:syllabus"
	PermissionManageResources    Permission = "manage:resources"
	PermissionManageQuestions    Permission = "manage:questions"
	PermissionManageRoles        Permission = "manage:roles"
	PermissionModerateForum      Permission = "moderate:forum"
	PermissionViewResources      Permission = "view:resources"
	PermissionViewQuestions      Permission = "view:questions"
	PermissionPostForum          Permission = "post:forum"
)
