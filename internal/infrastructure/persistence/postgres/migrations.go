package postgres

// Embedded schema migrations. Applied in order by the Migrator on startup.

const migration001Up = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	username VARCHAR(50) NOT NULL UNIQUE,
	name VARCHAR(200) NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
	is_moderator BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
`

const migration001Down = `
DROP TABLE IF EXISTS users;
`

const migration002Up = `
CREATE TABLE IF NOT EXISTS players (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	display_name VARCHAR(100) NOT NULL,
	gender CHAR(1) NOT NULL CHECK (gender IN ('M', 'F')),
	birthdate DATE,
	email VARCHAR(255) NOT NULL UNIQUE,
	phone VARCHAR(20) NOT NULL UNIQUE,
	address TEXT NOT NULL DEFAULT '',
	photo_url TEXT NOT NULL DEFAULT '',
	total_score INTEGER NOT NULL DEFAULT 0 CHECK (total_score >= 0),
	high_score INTEGER NOT NULL DEFAULT 0 CHECK (high_score >= 0),
	games_played INTEGER NOT NULL DEFAULT 0 CHECK (games_played >= 0),
	games_won INTEGER NOT NULL DEFAULT 0 CHECK (games_won >= 0 AND games_won <= games_played),
	average_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	last_game_score INTEGER,
	last_game_date TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Leaderboard queries order by one counter descending with a name tiebreak.
CREATE INDEX IF NOT EXISTS idx_players_total_score ON players(total_score DESC, display_name ASC);
CREATE INDEX IF NOT EXISTS idx_players_high_score ON players(high_score DESC, display_name ASC);
CREATE INDEX IF NOT EXISTS idx_players_games_won ON players(games_won DESC, display_name ASC);
CREATE INDEX IF NOT EXISTS idx_players_user_id ON players(user_id);
`

const migration002Down = `
DROP TABLE IF EXISTS players;
`

const migration003Up = `
CREATE TABLE IF NOT EXISTS offers (
	id UUID PRIMARY KEY,
	title VARCHAR(200) NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	color VARCHAR(7) NOT NULL DEFAULT '#1565C0',
	image_path TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	offer_type VARCHAR(20) NOT NULL DEFAULT 'OTHER'
		CHECK (offer_type IN ('DISCOUNT', 'EVENT', 'TRAINING', 'MEMBERSHIP', 'OTHER')),
	start_date TIMESTAMPTZ NOT NULL,
	end_date TIMESTAMPTZ NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'DRAFT'
		CHECK (status IN ('DRAFT', 'UPCOMING', 'ACTIVE', 'EXPIRED')),
	is_featured BOOLEAN NOT NULL DEFAULT FALSE,
	is_exclusive BOOLEAN NOT NULL DEFAULT FALSE,
	created_by UUID REFERENCES users(id) ON DELETE SET NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CHECK (end_date > start_date)
);

CREATE INDEX IF NOT EXISTS idx_offers_status ON offers(status);
CREATE INDEX IF NOT EXISTS idx_offers_window ON offers(start_date, end_date);
CREATE INDEX IF NOT EXISTS idx_offers_featured ON offers(is_featured) WHERE is_featured;
`

const migration003Down = `
DROP TABLE IF EXISTS offers;
`
