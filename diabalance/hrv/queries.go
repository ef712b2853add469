package hrv

const (
	measurementColumns = `
		id, user_id, to_char(measure_date, 'YYYY-MM-DD'),
		stress_index, readiness, physiological_age, mean_hr_bpm, sdnn_ms
	`

	queryUpsert = `
		INSERT INTO hrv_measurements (
			user_id, measure_date,
			stress_index, readiness, physiological_age, mean_hr_bpm, sdnn_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, measure_date) DO UPDATE SET
			stress_index = EXCLUDED.stress_index,
			readiness = EXCLUDED.readiness,
			physiological_age = EXCLUDED.physiological_age,
			mean_hr_bpm = EXCLUDED.mean_hr_bpm,
			sdnn_ms = EXCLUDED.sdnn_ms
		RETURNING id
	`

	queryFindByDate = `
		SELECT ` + measurementColumns + `
		FROM hrv_measurements
		WHERE user_id = $1 AND measure_date = $2
	`

	queryListMonth = `
		SELECT ` + measurementColumns + `
		FROM hrv_measurements
		WHERE user_id = $1
		  AND EXTRACT(YEAR FROM measure_date) = $2
		  AND EXTRACT(MONTH FROM measure_date) = $3
		ORDER BY measure_date
	`
)
