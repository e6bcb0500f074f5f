package models

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// All lists every model managed by Migrate, keyed by table name.
func All() map[string]any {
	return map[string]any{
		"projects":     &Project{},
		"project_tags": &ProjectTag{},
		"admins":       &Admin{},
	}
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Project{}, &ProjectTag{}, &Admin{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// ColumnMismatchReport lists, per table, the database columns that no model
// field maps to. Tables that do not exist yet are skipped.
func ColumnMismatchReport(db *gorm.DB) (map[string][]string, error) {
	report := make(map[string][]string)
	migrator := db.Migrator()

	for tableName, model := range All() {
		if !migrator.HasTable(tableName) {
			continue
		}

		columnTypes, err := migrator.ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
		}

		modelFields := getModelFields(db.NamingStrategy, model)
		var mismatches []string
		for _, column := range columnTypes {
			if !modelFields[column.Name()] {
				mismatches = append(mismatches, column.Name())
			}
		}
		sort.Strings(mismatches)
		report[tableName] = mismatches
	}

	return report, nil
}

// getModelFields extracts column names from a Go struct using reflection
func getModelFields(naming schema.Namer, model any) map[string]bool {
	fields := make(map[string]bool)
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		// Skip has-many relations, they own no column
		if field.Type.Kind() == reflect.Slice {
			continue
		}

		columnName := extractColumnNameFromGormTag(field.Tag.Get("gorm"))
		if columnName == "" {
			columnName = naming.ColumnName("", field.Name)
		}
		fields[columnName] = true
	}

	return fields
}

// extractColumnNameFromGormTag extracts the column name from a GORM tag
func extractColumnNameFromGormTag(gormTag string) string {
	for _, part := range strings.Split(gormTag, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "column:") {
			return strings.TrimPrefix(part, "column:")
		}
	}
	return ""
}
