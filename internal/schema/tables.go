package schema

import "genetrack-backend-go/internal/models"

func id() Column {
	return Column{Name: "id", Type: TypeUUID, PrimaryKey: true}
}

func uuidRef(name string) Column {
	return Column{Name: name, Type: TypeUUID}
}

func varchar(name string, size int) Column {
	return Column{Name: name, Type: TypeVarchar, Size: size}
}

func text(name string) Column {
	return Column{Name: name, Type: TypeText}
}

func integer(name string) Column {
	return Column{Name: name, Type: TypeInteger}
}

func boolean(name string) Column {
	return Column{Name: name, Type: TypeBoolean, Default: "FALSE"}
}

func timestamp(name string) Column {
	return Column{Name: name, Type: TypeTimestamp}
}

func jsonData(name string) Column {
	return Column{Name: name, Type: TypeJSON, Nullable: true}
}

func enum(table, name string) Column {
	return Column{Name: name, Type: TypeVarchar, Size: 50, Enum: models.EnumValues()[table+"."+name]}
}

func quoted(value string) string {
	return "'" + value + "'"
}

func entity(name string, columns []Column, fks ...ForeignKey) Table {
	cols := append([]Column{id()}, columns...)
	cols = append(cols,
		timestamp("created_at").Def(DefaultNow),
		timestamp("updated_at").Def(DefaultNow),
	)
	return Table{Name: name, Columns: cols, ForeignKeys: fks}
}

func joinTable(name, left, leftRef, right, rightRef string) Table {
	return Table{
		Name:       name,
		Columns:    []Column{uuidRef(left), uuidRef(right)},
		PrimaryKey: []string{left, right},
		ForeignKeys: []ForeignKey{
			{Column: left, RefTable: leftRef, OnDelete: Cascade},
			{Column: right, RefTable: rightRef, OnDelete: Cascade},
		},
	}
}

func addressColumns() []Column {
	return []Column{
		text("address_line_1").Null(),
		text("address_house_number").Null(),
		text("address_line_2").Null(),
		varchar("address_city", 255).Null(),
		varchar("address_post_code", 20).Null(),
		varchar("address_country", 100).Null(),
	}
}

// Tables returns every table in creation order: a table only references
// tables listed before it.
func Tables() []Table {
	users := entity("users", append([]Column{
		integer("internal_id").Null().Uniq(),
		varchar("first_name", 255).Null(),
		varchar("last_name", 255).Null(),
		varchar("email", 254).Uniq(),
		varchar("phone", 15).Null(),
		text("hashed_password").Null(),
		varchar("role", 50).Def(quoted(models.DefaultUserRole)),
		boolean("is_super_admin"),
		boolean("is_email_verified"),
		boolean("is_developer"),
		boolean("restricted"),
		varchar("preferred_locale", 50).Null(),
		varchar("title", 100).Null(),
		varchar("institute", 255).Null(),
		varchar("department", 255).Null(),
	}, addressColumns()...))

	sessions := entity("sessions", []Column{
		varchar("handle", 255).Uniq(),
		text("hashed_session_token").Null(),
		text("anti_csrf_token").Null(),
		text("public_data").Null(),
		text("private_data").Null(),
		uuidRef("user_id").Null(),
	}, ForeignKey{Column: "user_id", RefTable: "users", OnDelete: SetNull})

	tokens := entity("tokens", []Column{
		text("hashed_token"),
		varchar("token_type", 255),
		text("note").Null(),
		boolean("disabled"),
		timestamp("expires_at"),
		varchar("sent_to", 254),
		uuidRef("user_id"),
	}, ForeignKey{Column: "user_id", RefTable: "users", OnDelete: Cascade})

	accessLogs := entity("api_access_logs", []Column{
		uuidRef("token_id"),
		varchar("action", 255),
		{Name: "success", Type: TypeBoolean},
		text("comment").Null(),
		jsonData("data"),
	}, ForeignKey{Column: "token_id", RefTable: "tokens", OnDelete: Restrict})

	events := entity("events", []Column{
		enum("events", "type").Width(255),
		timestamp("event_time").Def(DefaultNow),
		text("comment").Null(),
		jsonData("data"),
		uuidRef("subject_id").Null(),
		uuidRef("user_id").Null(),
	}, ForeignKey{Column: "user_id", RefTable: "users", OnDelete: SetNull})

	organisations := entity("organisations", []Column{
		varchar("name", 255),
	})

	officeUnits := entity("office_units", []Column{
		varchar("name", 255),
		text("address_line_1"),
		text("address_house_number").Null(),
		text("address_line_2").Null(),
		varchar("address_city", 255),
		varchar("address_post_code", 20),
		varchar("address_country", 100),
		uuidRef("organisation_id"),
	}, ForeignKey{Column: "organisation_id", RefTable: "organisations", OnDelete: Cascade})

	channel := quoted(models.DefaultNotificationChannel)
	preferences := entity("notification_preferences", []Column{
		uuidRef("user_id").Uniq(),
		varchar("new_report_available", 50).Def(channel),
		varchar("new_sample_event", 50).Def(channel),
		varchar("subject_file_upload", 50).Def(channel),
	}, ForeignKey{Column: "user_id", RefTable: "users", OnDelete: Cascade})

	subjects := entity("subjects", []Column{
		integer("internal_id").Uniq(),
		integer("version_number").Def("1"),
		uuidRef("user_id"),
		uuidRef("office_unit_id").Null(),
		enum("subjects", "status").Def(quoted(string(models.SubjectDraft))),
		enum("subjects", "wizard_step").Def(quoted(string(models.StepPersonalInfo))),
		varchar("first_name", 255).Null(),
		varchar("last_name", 255).Null(),
		varchar("email", 254).Null(),
		varchar("phone", 15).Null(),
	},
		ForeignKey{Column: "user_id", RefTable: "users", OnDelete: Cascade},
		ForeignKey{Column: "office_unit_id", RefTable: "office_units", OnDelete: SetNull},
	)

	subjectFiles := entity("subject_files", []Column{
		varchar("name", 255),
		{Name: "size", Type: TypeBigInt},
		uuidRef("subject_id"),
		boolean("is_pedigree"),
	}, ForeignKey{Column: "subject_id", RefTable: "subjects", OnDelete: Cascade})

	products := entity("products", []Column{
		enum("products", "type"),
		varchar("payment_id", 255).Null(),
		uuidRef("user_id"),
	}, ForeignKey{Column: "user_id", RefTable: "users", OnDelete: Cascade})

	orders := entity("orders", []Column{
		integer("arcensus_order_id").Uniq(),
		uuidRef("subject_id"),
		uuidRef("product_id"),
	},
		ForeignKey{Column: "subject_id", RefTable: "subjects", OnDelete: Cascade},
		ForeignKey{Column: "product_id", RefTable: "products", OnDelete: Restrict},
	)

	samples := entity("samples", []Column{
		varchar("device_id", 255).Uniq(),
		uuidRef("subject_id").Null(),
		enum("samples", "test_type").Def(quoted(string(models.TestSangerOnHold))),
	}, ForeignKey{Column: "subject_id", RefTable: "subjects", OnDelete: SetNull})

	reports := entity("reports", []Column{
		uuidRef("subject_id"),
		uuidRef("uploader_id").Null(),
		uuidRef("order_id").Null(),
		enum("reports", "report_type").Null(),
		enum("reports", "test_type").Null(),
		varchar("file_name", 255).Null(),
		enum("reports", "file_type").Null(),
	},
		ForeignKey{Column: "subject_id", RefTable: "subjects", OnDelete: Cascade},
		ForeignKey{Column: "uploader_id", RefTable: "users", OnDelete: SetNull},
		ForeignKey{Column: "order_id", RefTable: "orders", OnDelete: Restrict},
	)

	shares := entity("subject_shares", []Column{
		uuidRef("subject_id"),
		uuidRef("user_id"),
		enum("subject_shares", "access_type"),
	},
		ForeignKey{Column: "subject_id", RefTable: "subjects", OnDelete: Cascade},
		ForeignKey{Column: "user_id", RefTable: "users", OnDelete: Cascade},
	)

	payments := entity("payments", []Column{
		uuidRef("subject_id").Null(),
		enum("payments", "status"),
	}, ForeignKey{Column: "subject_id", RefTable: "subjects", OnDelete: SetNull})

	financeSettings := entity("finance_settings", []Column{
		integer("version_number").Def("1"),
		enum("finance_settings", "test_type"),
		uuidRef("user_id"),
		boolean("test_available"),
		integer("price").Null(),
		enum("finance_settings", "currency"),
		uuidRef("creator_id").Null(),
	},
		ForeignKey{Column: "user_id", RefTable: "users", OnDelete: Cascade},
		ForeignKey{Column: "creator_id", RefTable: "users", OnDelete: SetNull},
	)

	return []Table{
		users,
		sessions,
		tokens,
		accessLogs,
		events,
		organisations,
		joinTable("organisation_users", "organisation_id", "organisations", "user_id", "users"),
		officeUnits,
		preferences,
		subjects,
		subjectFiles,
		products,
		orders,
		samples,
		reports,
		shares,
		payments,
		financeSettings,
		joinTable("finance_setting_samples", "finance_setting_id", "finance_settings", "sample_id", "samples"),
	}
}
