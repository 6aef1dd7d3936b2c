/*
Package operation hands compiled tasks to an executor.

	+-------------+
	|   Runner    |
	| (seq/async) |
	+------+------+
	       |
	+------+------+
	|  Executor   |
	| (vsql/dry)  |
	+-------------+

🎯 Purpose:
- Runs each compiled vsql command line once
- Reports task status through the console logger
- Stops at the first failed task

📝 The client's exit code is the only success signal. There are no retries
here; whatever schedules hive2vertica owns that.
*/
package operation
