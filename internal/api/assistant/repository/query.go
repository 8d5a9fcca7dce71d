package assistantRepository

const (
	queryCreateCommandRecord = `
		INSERT INTO assistant_commands (
			id, user_id, intent, confidence, needs_confirmation,
			success, message, created_at
		) VALUES (
			:id, :user_id, :intent, :confidence, :needs_confirmation,
			:success, :message, :created_at
		)
	`

	queryGetCommandRecordsByUserID = `
		SELECT
			id, user_id, intent, confidence, needs_confirmation,
			success, message, created_at
		FROM assistant_commands
		WHERE user_id = :user_id
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountCommandRecordsByUserID = `
		SELECT COUNT(*)
		FROM assistant_commands
		WHERE user_id = :user_id
	`

	queryDeleteCommandRecordsByUserID = `
		DELETE FROM assistant_commands
		WHERE user_id = :user_id
	`
)
