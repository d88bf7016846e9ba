package postgres

// SQL queries for PostgreSQL metadata introspection. The query builder works
// against a single flat namespace, so everything is scoped to the public schema.
const (
	queryListTables = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	queryListColumns = `
		SELECT
			c.column_name,
			c.data_type,
			c.is_nullable,
			c.ordinal_position,
			CASE WHEN pk.column_name IS NOT NULL THEN true ELSE false END AS is_primary,
			fk.foreign_table_name,
			fk.foreign_column_name
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT ku.column_name
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage ku
				ON tc.constraint_name = ku.constraint_name
				AND tc.table_schema = ku.table_schema
			WHERE tc.constraint_type = 'PRIMARY KEY'
				AND tc.table_schema = 'public'
				AND tc.table_name = $1
		) pk ON c.column_name = pk.column_name
		LEFT JOIN (
			SELECT
				kcu.column_name,
				ccu.table_name AS foreign_table_name,
				ccu.column_name AS foreign_column_name
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
			JOIN information_schema.constraint_column_usage ccu
				ON ccu.constraint_name = tc.constraint_name
				AND ccu.table_schema = tc.table_schema
			WHERE tc.constraint_type = 'FOREIGN KEY'
				AND tc.table_schema = 'public'
				AND tc.table_name = $1
		) fk ON c.column_name = fk.column_name
		WHERE c.table_schema = 'public'
		  AND c.table_name = $1
		ORDER BY c.ordinal_position`

	queryTableRowCount = `
		SELECT COALESCE(reltuples, 0)::bigint
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE c.relname = $1
		  AND n.nspname = 'public'`
)
