/*
NaiveSystems Analyze - A tool for static code analysis
Copyright (C) 2023  Naive Systems Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func set(key, msg string) {
	if err := message.SetString(language.Japanese, key, msg); err != nil {
		panic(err)
	}
}

// Keys are the English format strings passed to the printers.
func init() {
	// console
	set("%s quality check started", "%s 品質チェック開始")
	set("Started at: %s", "実行時刻: %s")
	set("Working directory: %s", "作業ディレクトリ: %s")
	set("Running in PlatformIO mode", "PlatformIOモードで実行中")
	set("Running in standalone mode", "スタンドアロンモードで実行中")
	set("Running: %s", "実行中: %s")
	set("Command: %s", "コマンド: %s")
	set("%s completed", "%s 完了")
	set("%s failed", "%s 失敗")
	set("%s failed: %v", "%s 失敗: %v")
	set("Error output: %s", "エラー出力: %s")
	set("Command not found: %s", "コマンドが見つかりません: %s")
	set("Tool check", "ツールチェック")
	set("%s installed", "%s インストール済み")
	set("%s not found: %s", "%s が見つかりません: %s")
	set("Required tools are missing", "必須ツールが不足しています")
	set("Tool check completed", "ツールチェック完了")
	set("Quality check tools are missing, collecting basic metrics only", "品質チェックツールが不足しているため、基本的なメトリクスのみ収集します")
	set("Basic metrics collection completed", "基本メトリクス収集完了")
	set("Phase 1: Build", "フェーズ1: ビルドテスト")
	set("PlatformIO build", "PlatformIOビルド")
	set("Build succeeded", "ビルド成功")
	set("Build succeeded (already run by PlatformIO)", "ビルド成功（PlatformIOで実行済み）")
	set("Build failed, stopping the quality check", "ビルドに失敗したため品質チェックを中止します")
	set("Build failed, continuing because allow_build_fail is set", "ビルドに失敗しましたが、allow_build_fail が指定されているため続行します")
	set("Phase 2: Cppcheck static analysis", "フェーズ2: Cppcheck静的解析")
	set("Cppcheck basic check", "Cppcheck基本チェック")
	set("Cppcheck MISRA-C check", "Cppcheck MISRA-Cチェック")
	set("%s not found, skipping the MISRA-C check", "%s が見つからないため、MISRA-Cチェックをスキップします")
	set("Cppcheck analysis completed (no errors)", "Cppcheck解析完了（エラーなし）")
	set("Cppcheck analysis completed (%d issues, see %s)", "Cppcheck解析完了（%d件、詳細: %s）")
	set("Failed to write %s", "%s の書き込みに失敗しました")
	set("Phase 3: Clang-Tidy static analysis", "フェーズ3: Clang-Tidy静的解析")
	set("Files to check: %d", "チェック対象ファイル数: %d")
	set("Checking: %s", "チェック中: %s")
	set("Clang-Tidy analysis completed (no warnings)", "Clang-Tidy解析完了（警告なし）")
	set("Clang-Tidy analysis completed (warnings in %d files, %d issues)", "Clang-Tidy解析完了（%dファイルで警告、%d件）")
	set("Phase 4: Unit tests", "フェーズ4: 単体テスト")
	set("PlatformIO unit tests", "PlatformIO単体テスト")
	set("All unit tests passed", "全テスト正常終了")
	set("Unit tests failed, stopping the quality check", "単体テストに失敗したため品質チェックを中止します")
	set("Disabled", "無効")
	set("Phase 5: Code coverage analysis", "フェーズ5: カバレッジ計測")
	set("Failed to create %s", "%s の作成に失敗しました")
	set("Failed to search %s for coverage data", "%s のカバレッジデータ検索に失敗しました")
	set("No coverage data found. Ensure tests are built with coverage flags.", "カバレッジデータが見つかりません。テストがカバレッジフラグ付きでビルドされているか確認してください")
	set("Found %d gcda files", "gcdaファイル %d 件")
	set("Using lcov for coverage analysis...", "lcovでカバレッジを解析します...")
	set("Collecting coverage data", "カバレッジデータ収集")
	set("Filtering coverage data", "カバレッジデータのフィルタリング")
	set("Generating HTML report", "HTMLレポート生成")
	set("HTML coverage report generated", "HTMLカバレッジレポート生成完了")
	set("Report location: %s", "レポート: %s")
	set("lcov failed, falling back to gcov", "lcovが失敗したため、gcovで解析します")
	set("lcov not available, using gcov...", "lcovが利用できないため、gcovを使用します...")
	set("Processing: %s", "処理中: %s")
	set("gcov coverage analysis completed", "gcovカバレッジ解析完了")
	set("gcov failed for %d of %d files", "gcovが %d/%d ファイルで失敗しました")
	set(".gcov files generated in %s", ".gcovファイルを %s に生成しました")
	set("Code quality metrics", "コード品質メトリクス")
	set("Total lines of code: %d", "総コード行数: %d")
	set("C++ files: %d", "C++ファイル: %d")
	set("C files: %d", "Cファイル: %d")
	set("Header files: %d", "ヘッダファイル: %d")
	set("Complexity statistics", "複雑度統計")
	set("Complexity top %d:", "複雑度TOP%d:")
	set("Generating quality report", "品質レポート生成")
	set("Quality report generated: %s", "品質レポート生成完了: %s")
	set("Failed to write the run summary", "実行サマリーの書き込みに失敗しました")
	set("Quality check completed", "品質チェック完了")
	set("All phases completed successfully (%s)", "全フェーズが正常に完了しました（所要時間: %s）")
	set("Finished in %s, needs review: %s", "完了しました（所要時間: %s）。要確認: %s")
	set("Ready to commit", "コミット準備完了です")
	set("Interrupted by user", "ユーザーによって中断されました")
	set("Unexpected error: %v", "予期しないエラーが発生しました: %v")

	// report
	set("# Quality Check Report", "# 品質チェックレポート")
	set("Quality Check Report", "品質チェックレポート")
	set("**Executed at**: %s", "**実行日時**: %s")
	set("**Project**: %s", "**プロジェクト**: %s")
	set("## Summary", "## チェック結果サマリー")
	set("Phase", "フェーズ")
	set("Result", "結果")
	set("Details", "詳細")
	set("Build", "ビルドテスト")
	set("Unit Tests", "単体テスト")
	set("Coverage", "カバレッジ")
	set("✓ Passed", "✓ 成功")
	set("⚠ Needs review", "⚠ 要確認")
	set("✗ Failed", "✗ 失敗")
	set("- No data", "- データなし")
	set("- Skipped", "- スキップ")
	set("Not run", "未実行")
	set("PlatformIO build completed", "PlatformIOビルド正常完了")
	set("Build failed (%s)", "ビルド失敗（%s）")
	set("No errors", "エラーなし")
	set("No warnings", "警告なし")
	set("%d issues, details: %s", "%d件、詳細: %s")
	set("Details: %s", "詳細: %s")
	set("All tests passed", "全テスト正常終了")
	set("Tests failed (%s)", "テスト失敗（%s）")
	set("Report: %s", "レポート: %s")
	set("gcov failed for %d files, output in %s", "gcovが %d ファイルで失敗、出力: %s")
	set("No coverage data found", "カバレッジデータなし")
	set("## Metrics", "## メトリクス")
	set("- Total lines of code: %d", "- 総コード行数: %d")
	set("- C++ files: %d", "- C++ファイル: %d")
	set("- C files: %d", "- Cファイル: %d")
	set("- Header files: %d", "- ヘッダファイル: %d")
	set("Most complex functions (pmccabe):", "複雑度の高い関数（pmccabe）:")
	set("## Recommended Actions", "## 推奨アクション")
	set("Review and fix Cppcheck warnings", "Cppcheck警告の確認・修正")
	set("Review and fix Clang-Tidy warnings", "Clang-Tidy警告の確認・修正")
	set("Review the coverage report", "カバレッジレポートの確認")
	set("Consider refactoring high-complexity functions", "複雑度の高い関数のリファクタリング検討")
	set("## Detailed Logs", "## 詳細ログ")
	set("Tool logs: %s", "各種ツールログ: %s")
}
