package model

import "time"

// Repo はリポジトリ一覧APIから取得したリポジトリ概要を表す。
type Repo struct {
	ID              int64
	Name            string
	Description     string // 未設定の場合は空文字列
	HTMLURL         string
	Language        string // 未設定の場合は空文字列
	StargazersCount int
	ForksCount      int
	UpdatedAt       time.Time
}

// Post はサイト内で定義されたフィード投稿を表す。
type Post struct {
	ID        string
	Title     string
	Date      string // YYYY-MM-DD
	Content   string
	ImageURL  string
	Tags      []string
	CreatedAt time.Time
}

// ContentEntry は記事リポジトリのディレクトリ一覧の1エントリを表す。
type ContentEntry struct {
	Name        string
	Path        string
	SHA         string
	Type        string // file / dir
	DownloadURL string
}

// Article は記事リポジトリから取得したMarkdown記事を表す。
type Article struct {
	ID       string // blobのSHA
	FileName string
	Title    string
	Content  string // 先頭のH1見出しを除去したMarkdown本文
	HTML     string // レンダリングおよびサニタイズ済みHTML
	Preview  string
	RawURL   string
}
