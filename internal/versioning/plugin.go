package versioning

import (
	"reflect"

	"gorm.io/gorm"
)

// Plugin enforces optimistic-lock bookkeeping at the ORM layer: any UPDATE
// against a model with a `version` column gets `version = version + 1` merged
// into the same statement. Services cannot forget it and callers cannot
// bypass it, which makes version monotonicity a storage-layer guarantee
// rather than a convention.
type Plugin struct{}

func New() Plugin { return Plugin{} }

func (Plugin) Name() string { return "versioning" }

func (p Plugin) Initialize(db *gorm.DB) error {
	return db.Callback().Update().Before("gorm:update").Register("versioning:bump", bumpVersion)
}

func bumpVersion(db *gorm.DB) {
	stmt := db.Statement
	if stmt.Schema == nil {
		return
	}
	field := stmt.Schema.LookUpField("version")
	if field == nil {
		return
	}

	switch dest := stmt.Dest.(type) {
	case map[string]interface{}:
		if _, ok := dest["version"]; !ok {
			dest["version"] = gorm.Expr("version + ?", 1)
		}
	default:
		// Struct-based Save/Updates: the loaded value holds the current
		// version, so bump the field before the SET clause is built.
		if stmt.ReflectValue.Kind() != reflect.Struct {
			return
		}
		val, zero := field.ValueOf(stmt.Context, stmt.ReflectValue)
		if zero {
			return
		}
		if n, ok := val.(int); ok {
			_ = field.Set(stmt.Context, stmt.ReflectValue, n+1)
		}
	}
}
