package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names.
const (
	profilesTable = "profiles"
	accountsTable = "accounts"
	eventsTable   = "quiz_events"
)

var (
	// ProfilesTable holds one JSON progress document per learner.
	ProfilesTable = schema.NewTable(profilesTable).
			AddPrimary(&schema.Column{Name: "user_id", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "data", Type: field.TypeString, Size: 1 << 20}).
			AddColumn(&schema.Column{Name: "version", Type: field.TypeInt64, Default: 0}).
			AddColumn(&schema.Column{Name: "created_at", Type: field.TypeInt64}).
			AddColumn(&schema.Column{Name: "updated_at", Type: field.TypeInt64})

	// AccountsTable holds local logins.
	AccountsTable = schema.NewTable(accountsTable).
			AddPrimary(&schema.Column{Name: "id", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "email", Type: field.TypeString, Unique: true}).
			AddColumn(&schema.Column{Name: "password_hash", Type: field.TypeBytes}).
			AddColumn(&schema.Column{Name: "full_name", Type: field.TypeString, Default: ""}).
			AddColumn(&schema.Column{Name: "username", Type: field.TypeString, Default: ""}).
			AddColumn(&schema.Column{Name: "failed_attempts", Type: field.TypeInt, Default: 0}).
			AddColumn(&schema.Column{Name: "locked_until", Type: field.TypeInt64, Default: 0}).
			AddColumn(&schema.Column{Name: "created_at", Type: field.TypeInt64})

	// EventsTable is the append-only progression journal. Sequence is the
	// global counter shared by all event kinds.
	EventsTable = schema.NewTable(eventsTable).
			AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true}).
			AddColumn(&schema.Column{Name: "sequence", Type: field.TypeInt64, Unique: true}).
			AddColumn(&schema.Column{Name: "timestamp", Type: field.TypeInt64}).
			AddColumn(&schema.Column{Name: "user_id", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "kind", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "quiz_id", Type: field.TypeString, Default: ""}).
			AddColumn(&schema.Column{Name: "course_id", Type: field.TypeString, Default: ""}).
			AddColumn(&schema.Column{Name: "score", Type: field.TypeInt, Default: 0}).
			AddColumn(&schema.Column{Name: "passed", Type: field.TypeBool, Default: false}).
			AddColumn(&schema.Column{Name: "detail", Type: field.TypeString, Default: ""}).
			AddIndex("quizevent_user_id_sequence", false, []string{"user_id", "sequence"}).
			AddIndex("quizevent_timestamp", false, []string{"timestamp"})

	// Tables lists every table managed by auto-migration.
	Tables = []*schema.Table{
		ProfilesTable,
		AccountsTable,
		EventsTable,
	}
)
