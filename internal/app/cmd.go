package app

// Command はblogmanバイナリの起動モードを表す。
// 単一バイナリでAPIサーバー・クリーンアップワーカー・マイグレーション・
// ヘルスチェックを兼ねる。
type Command string

const (
	// CommandServe はAPIサーバーとして起動する。
	CommandServe Command = "serve"
	// CommandWorker はクリーンアップワーカーとして起動する。
	CommandWorker Command = "worker"
	// CommandMigrate はデータベースマイグレーションを適用して終了する。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck は稼働中のAPIサーバーに対してヘルスチェックを行う。
	// distrolessイメージにはシェルがないため、Dockerのヘルスチェックは
	// このサブコマンドを使う。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand は先頭のコマンドライン引数からサブコマンドを解析する。
// 引数なし・未知のサブコマンドはいずれもCommandServeとして扱う。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "serve":
		return CommandServe
	case "worker":
		return CommandWorker
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}
