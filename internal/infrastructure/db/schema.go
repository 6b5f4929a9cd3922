package db

// schema is written in the common subset of SQLite and PostgreSQL: $N
// placeholders, BIGINT millisecond timestamps, BOOLEAN/DOUBLE PRECISION type
// names and partial indexes.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user',
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS courses (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS subjects (
    id TEXT PRIMARY KEY,
    course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS topics (
    id TEXT PRIMARY KEY,
    subject_id TEXT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
    question_number INTEGER PRIMARY KEY,
    section TEXT NOT NULL,
    difficulty TEXT NOT NULL,
    type TEXT NOT NULL,
    text TEXT NOT NULL,
    options TEXT NOT NULL DEFAULT '[]',
    answer TEXT NOT NULL,
    explanation TEXT NOT NULL DEFAULT '',
    topic_id TEXT REFERENCES topics(id) ON DELETE SET NULL,
    attempt_count BIGINT NOT NULL DEFAULT 0,
    accuracy_sum DOUBLE PRECISION NOT NULL DEFAULT 0,
    time_spent_sum DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS ix_questions_filter ON questions(section, difficulty, type);

CREATE TABLE IF NOT EXISTS solved_questions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    question_number INTEGER NOT NULL,
    section TEXT NOT NULL,
    type TEXT NOT NULL,
    difficulty TEXT NOT NULL,
    attempts INTEGER NOT NULL,
    accuracy DOUBLE PRECISION NOT NULL,
    time_spent DOUBLE PRECISION NOT NULL,
    score DOUBLE PRECISION NOT NULL,
    percentile DOUBLE PRECISION NOT NULL,
    solved_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS ix_solved_question_score ON solved_questions(question_number, score);
CREATE INDEX IF NOT EXISTS ix_solved_user_time ON solved_questions(user_id, solved_at);

CREATE TABLE IF NOT EXISTS lists (
    id TEXT PRIMARY KEY,
    creator_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    visibility TEXT NOT NULL,
    is_favorites BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS ix_lists_creator ON lists(creator_id);
CREATE UNIQUE INDEX IF NOT EXISTS ux_lists_favorites ON lists(creator_id) WHERE is_favorites = TRUE;

CREATE TABLE IF NOT EXISTS list_questions (
    list_id TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
    question_number INTEGER NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (list_id, question_number)
);

CREATE TABLE IF NOT EXISTS list_saves (
    list_id TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    PRIMARY KEY (list_id, user_id)
);

CREATE TABLE IF NOT EXISTS question_lists (
    id TEXT PRIMARY KEY,
    creator_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    questions TEXT NOT NULL DEFAULT '[]',
    tags TEXT NOT NULL DEFAULT '[]',
    is_public BOOLEAN NOT NULL DEFAULT FALSE,
    is_official BOOLEAN NOT NULL DEFAULT FALSE,
    total_questions INTEGER NOT NULL DEFAULT 0,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS question_list_likes (
    list_id TEXT NOT NULL REFERENCES question_lists(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    PRIMARY KEY (list_id, user_id)
);

CREATE TABLE IF NOT EXISTS question_list_saves (
    list_id TEXT NOT NULL REFERENCES question_lists(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    PRIMARY KEY (list_id, user_id)
);

CREATE TABLE IF NOT EXISTS discussions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    category TEXT NOT NULL,
    question_number INTEGER,
    is_pinned BOOLEAN NOT NULL DEFAULT FALSE,
    views BIGINT NOT NULL DEFAULT 0,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS discussion_reactions (
    discussion_id TEXT NOT NULL REFERENCES discussions(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    reaction TEXT NOT NULL,
    PRIMARY KEY (discussion_id, user_id)
);

CREATE TABLE IF NOT EXISTS discussion_replies (
    id TEXT PRIMARY KEY,
    discussion_id TEXT NOT NULL REFERENCES discussions(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS ix_replies_discussion ON discussion_replies(discussion_id, created_at);

CREATE TABLE IF NOT EXISTS reply_reactions (
    reply_id TEXT NOT NULL REFERENCES discussion_replies(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    reaction TEXT NOT NULL,
    PRIMARY KEY (reply_id, user_id)
);

CREATE TABLE IF NOT EXISTS notifications (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    message TEXT NOT NULL,
    link TEXT NOT NULL DEFAULT '',
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS ix_notifications_user ON notifications(user_id, created_at);
`
