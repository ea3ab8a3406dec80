package domain

// Роли пользователей. Приходят строкой от identity-провайдера
// через шлюз; неизвестное значение трактуется как обычный пользователь.
const (
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleSysadmin = "sysadmin"
)

// IsPrivileged сообщает, дает ли роль доступ к админским операциям.
func IsPrivileged(role string) bool {
	return role == RoleAdmin || role == RoleSysadmin
}
