package rbac

const roleFields = `id name displayName level parentId isSystem`
const permissionFields = `id action subject description category isSystem`
const moduleFields = `id name description path icon category enabled version dependencies features permissions metadata`

const (
	queryRoles = `query Roles { roles { ` + roleFields + ` } }`

	queryRole = `query Role($id: ID!) {
  role(id: $id) { ` + roleFields + ` permissions { ` + permissionFields + ` } }
}`

	queryRolePermissions = `query RolePermissions($roleId: ID!) {
  rolePermissions(roleId: $roleId) { ` + permissionFields + ` }
}`

	queryRoleModules = `query RoleModules($roleId: ID!) {
  roleModules(roleId: $roleId) { ` + moduleFields + ` }
}`

	queryPermissions = `query Permissions { permissions { ` + permissionFields + ` } }`

	queryPermissionsByCategory = `query PermissionsByCategory($category: String!) {
  permissionsByCategory(category: $category) { ` + permissionFields + ` }
}`

	queryModules = `query Modules($skip: Int, $take: Int) {
  modules(skip: $skip, take: $take) { ` + moduleFields + ` }
}`

	queryModuleByPath = `query ModuleByPath($path: String!) {
  moduleByPath(path: $path) { ` + moduleFields + ` }
}`
)

const (
	mutationCreateRole = `mutation CreateRole($input: CreateRoleInput!) {
  createRole(input: $input) { ` + roleFields + ` }
}`
	mutationUpdateRole = `mutation UpdateRole($id: ID!, $input: UpdateRoleInput!) {
  updateRole(id: $id, input: $input) { ` + roleFields + ` }
}`
	mutationDeleteRole         = `mutation DeleteRole($id: ID!) { deleteRole(id: $id) }`
	mutationAssignRoleToUser   = `mutation AssignRoleToUser($input: AssignRoleInput!) { assignRoleToUser(input: $input) }`
	mutationRemoveRoleFromUser = `mutation RemoveRoleFromUser($input: AssignRoleInput!) { removeRoleFromUser(input: $input) }`

	mutationCreatePermission = `mutation CreatePermission($input: CreatePermissionInput!) {
  createPermission(input: $input) { ` + permissionFields + ` }
}`
	mutationUpdatePermission = `mutation UpdatePermission($id: ID!, $input: UpdatePermissionInput!) {
  updatePermission(id: $id, input: $input) { ` + permissionFields + ` }
}`
	mutationDeletePermission         = `mutation DeletePermission($id: ID!) { deletePermission(id: $id) }`
	mutationAssignPermissionToRole   = `mutation AssignPermissionToRole($input: AssignPermissionInput!) { assignPermissionToRole(input: $input) }`
	mutationRemovePermissionFromRole = `mutation RemovePermissionFromRole($input: AssignPermissionInput!) { removePermissionFromRole(input: $input) }`
)
