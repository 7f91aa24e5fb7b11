package schema

// Role is the inferred semantic category of a column. The set is closed:
// every eligibility rule in the analytics layer switches over these tags, so
// adding a role means revisiting the operation table.
type Role string

const (
	RoleNumerical   Role = "numerical"
	RoleCategorical Role = "categorical"
	RoleTemporal    Role = "temporal"
	RoleIdentifier  Role = "identifier"
	RoleText        Role = "text"
	RoleBoolean     Role = "boolean"
	RoleUnknown     Role = "unknown"
)

func (r Role) String() string { return string(r) }
