/*
Package config loads hive2vertica job files.

	            +-------------+
	            |   Config    |
	            |   (Jobs)    |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   YAML    |           |   HCL   |
	| Parser    |           | Parser  |
	+-----------+           +---------+

🎯 Purpose:
- Reads a list of copy jobs plus shared client and target defaults
- Resolves ${ds} / ${ENV} (YAML) and ds / env.NAME (HCL) references
- Validates required fields before anything is compiled

🔍 Example:

	warehouse_root = "hdfs:///apps/hive/warehouse"

	defaults {
	  vertica_server   = "10.0.0.5"
	  vertica_database = "DWH"
	}

	job "orders" {
	  hive_table       = "sales.orders"
	  vertica_table    = "dwh.orders"
	  partition_column = "day"
	  partition_value  = ds
	}
*/
package config
