package users

const (
	queryCreate = `
		INSERT INTO users (username, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	queryFindByUsername = `
		SELECT id, username, email, password, role, kubios_token, kubios_expiration, created_at
		FROM users
		WHERE username = $1
	`

	queryFindByID = `
		SELECT id, username, email, password, role, kubios_token, kubios_expiration, created_at
		FROM users
		WHERE id = $1
	`

	queryFindByEmail = `
		SELECT id, username, email, password, role, kubios_token, kubios_expiration, created_at
		FROM users
		WHERE email = $1
	`

	queryUpdateKubiosToken = `
		UPDATE users
		SET kubios_token = $1, kubios_expiration = $2
		WHERE id = $3
	`

	queryClearKubiosToken = `
		UPDATE users
		SET kubios_token = NULL, kubios_expiration = NULL
		WHERE id = $1
	`

	queryUpdateProfile = `
		UPDATE users
		SET username = COALESCE($1, username),
		    email = COALESCE($2, email),
		    password = COALESCE($3, password)
		WHERE id = $4
	`

	queryUsernameTaken = `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE username = $1 AND id != $2
		)
	`

	queryEmailTaken = `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE email = $1 AND id != $2
		)
	`

	queryFindAccountByEmail = `
		SELECT id, role
		FROM users
		WHERE email = $1
	`

	queryCreateShadowAccount = `
		INSERT INTO users (username, email, password, role)
		VALUES ($1, $2, $3, 0)
		RETURNING id, role
	`
)
