package entries

const (
	entryColumns = `
		id, user_id, to_char(entry_date, 'YYYY-MM-DD'),
		glucose_morning, glucose_evening,
		glucose_before_breakfast, glucose_after_breakfast,
		glucose_before_lunch, glucose_after_lunch,
		glucose_before_snack, glucose_after_snack,
		glucose_before_dinner, glucose_after_dinner,
		glucose_before_supper, glucose_after_supper,
		symptoms, comment
	`

	queryCreate = `
		INSERT INTO entries (
			user_id, entry_date,
			glucose_morning, glucose_evening,
			glucose_before_breakfast, glucose_after_breakfast,
			glucose_before_lunch, glucose_after_lunch,
			glucose_before_snack, glucose_after_snack,
			glucose_before_dinner, glucose_after_dinner,
			glucose_before_supper, glucose_after_supper,
			symptoms, comment
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`

	queryUpsert = `
		INSERT INTO entries (
			user_id, entry_date,
			glucose_morning, glucose_evening,
			glucose_before_breakfast, glucose_after_breakfast,
			glucose_before_lunch, glucose_after_lunch,
			glucose_before_snack, glucose_after_snack,
			glucose_before_dinner, glucose_after_dinner,
			glucose_before_supper, glucose_after_supper,
			symptoms, comment
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (user_id, entry_date) DO UPDATE SET
			glucose_morning = EXCLUDED.glucose_morning,
			glucose_evening = EXCLUDED.glucose_evening,
			glucose_before_breakfast = EXCLUDED.glucose_before_breakfast,
			glucose_after_breakfast = EXCLUDED.glucose_after_breakfast,
			glucose_before_lunch = EXCLUDED.glucose_before_lunch,
			glucose_after_lunch = EXCLUDED.glucose_after_lunch,
			glucose_before_snack = EXCLUDED.glucose_before_snack,
			glucose_after_snack = EXCLUDED.glucose_after_snack,
			glucose_before_dinner = EXCLUDED.glucose_before_dinner,
			glucose_after_dinner = EXCLUDED.glucose_after_dinner,
			glucose_before_supper = EXCLUDED.glucose_before_supper,
			glucose_after_supper = EXCLUDED.glucose_after_supper,
			symptoms = EXCLUDED.symptoms,
			comment = EXCLUDED.comment
		RETURNING id
	`

	queryDelete = `
		DELETE FROM entries
		WHERE user_id = $1 AND entry_date = $2
	`

	queryListMonth = `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE user_id = $1
		  AND EXTRACT(YEAR FROM entry_date) = $2
		  AND EXTRACT(MONTH FROM entry_date) = $3
		ORDER BY entry_date
	`

	queryExists = `
		SELECT EXISTS (
			SELECT 1 FROM entries WHERE user_id = $1 AND entry_date = $2
		)
	`
)
