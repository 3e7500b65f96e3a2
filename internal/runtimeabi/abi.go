// Package runtimeabi holds the frozen table of C-ABI function names
// the lowerer emits calls to. Backends implement these names; the
// compiler never invents new ones at lowering time.
package runtimeabi

// Signature describes one runtime function's name and arity, for
// validation and for --debug-dump rendering.
type Signature struct {
	Name     string
	Arity    int
	Variadic bool
}

// Category groups related runtime entry points for documentation and
// for the closed importable-module sub-tables in modules.go.
type Category string

const (
	MemoryRC  Category = "memory_rc"
	Strings   Category = "strings"
	Arrays    Category = "arrays"
	Console   Category = "console"
	Math      Category = "math"
	JSON      Category = "json"
	ProcessOS Category = "process_os"
	Async     Category = "async"
	Exception Category = "exception"
)

// Table is the full frozen ABI, keyed by function name, per §6.4.
var Table = map[string]Signature{
	// Memory / reference counting
	"zaco_alloc":        {Name: "zaco_alloc", Arity: 1},
	"zaco_free":         {Name: "zaco_free", Arity: 1},
	"zaco_rc_inc":       {Name: "zaco_rc_inc", Arity: 1},
	"zaco_rc_dec":       {Name: "zaco_rc_dec", Arity: 1},
	"zaco_array_rc_dec": {Name: "zaco_array_rc_dec", Arity: 1},

	// Strings
	"zaco_str_new":         {Name: "zaco_str_new", Arity: 1},
	"zaco_str_concat":      {Name: "zaco_str_concat", Arity: 2},
	"zaco_str_len":         {Name: "zaco_str_len", Arity: 1},
	"zaco_str_eq":          {Name: "zaco_str_eq", Arity: 2},
	"zaco_i64_to_str":      {Name: "zaco_i64_to_str", Arity: 1},
	"zaco_f64_to_str":      {Name: "zaco_f64_to_str", Arity: 1},
	"zaco_str_slice":       {Name: "zaco_str_slice", Arity: 3},
	"zaco_str_to_upper":    {Name: "zaco_str_to_upper", Arity: 1},
	"zaco_str_to_lower":    {Name: "zaco_str_to_lower", Arity: 1},
	"zaco_str_trim":        {Name: "zaco_str_trim", Arity: 1},
	"zaco_str_index_of":    {Name: "zaco_str_index_of", Arity: 2},
	"zaco_str_includes":    {Name: "zaco_str_includes", Arity: 2},
	"zaco_str_replace":     {Name: "zaco_str_replace", Arity: 3},
	"zaco_str_split":       {Name: "zaco_str_split", Arity: 2},
	"zaco_str_starts_with": {Name: "zaco_str_starts_with", Arity: 2},
	"zaco_str_ends_with":   {Name: "zaco_str_ends_with", Arity: 2},
	"zaco_str_char_at":     {Name: "zaco_str_char_at", Arity: 2},
	"zaco_str_repeat":      {Name: "zaco_str_repeat", Arity: 2},
	"zaco_str_pad_start":   {Name: "zaco_str_pad_start", Arity: 2},
	"zaco_str_pad_end":     {Name: "zaco_str_pad_end", Arity: 2},

	// Arrays
	"zaco_array_new":      {Name: "zaco_array_new", Arity: 1},
	"zaco_array_push":     {Name: "zaco_array_push", Arity: 2},
	"zaco_array_get":      {Name: "zaco_array_get", Arity: 2},
	"zaco_array_len":      {Name: "zaco_array_len", Arity: 1},
	"zaco_array_slice":    {Name: "zaco_array_slice", Arity: 3},
	"zaco_array_concat":   {Name: "zaco_array_concat", Arity: 2},
	"zaco_array_index_of": {Name: "zaco_array_index_of", Arity: 2},
	"zaco_array_join":     {Name: "zaco_array_join", Arity: 2},
	"zaco_array_reverse":  {Name: "zaco_array_reverse", Arity: 1},
	"zaco_array_pop":      {Name: "zaco_array_pop", Arity: 1},
	"zaco_array_set":      {Name: "zaco_array_set", Arity: 3},
	"zaco_array_length":   {Name: "zaco_array_length", Arity: 1},
	"zaco_array_get_f64":  {Name: "zaco_array_get_f64", Arity: 2},
	"zaco_array_get_ptr":  {Name: "zaco_array_get_ptr", Arity: 2},

	// Console
	"zaco_print_str":            {Name: "zaco_print_str", Arity: 1},
	"zaco_print_i64":            {Name: "zaco_print_i64", Arity: 1},
	"zaco_print_f64":            {Name: "zaco_print_f64", Arity: 1},
	"zaco_print_bool":           {Name: "zaco_print_bool", Arity: 1},
	"zaco_println_str":          {Name: "zaco_println_str", Arity: 1},
	"zaco_console_error_str":    {Name: "zaco_console_error_str", Arity: 1},
	"zaco_console_error_i64":    {Name: "zaco_console_error_i64", Arity: 1},
	"zaco_console_error_f64":    {Name: "zaco_console_error_f64", Arity: 1},
	"zaco_console_error_bool":   {Name: "zaco_console_error_bool", Arity: 1},
	"zaco_console_warn_str":     {Name: "zaco_console_warn_str", Arity: 1},
	"zaco_console_warn_i64":     {Name: "zaco_console_warn_i64", Arity: 1},
	"zaco_console_warn_f64":     {Name: "zaco_console_warn_f64", Arity: 1},
	"zaco_console_warn_bool":    {Name: "zaco_console_warn_bool", Arity: 1},
	"zaco_console_debug_str":    {Name: "zaco_console_debug_str", Arity: 1},
	"zaco_console_debug_i64":    {Name: "zaco_console_debug_i64", Arity: 1},
	"zaco_console_debug_f64":    {Name: "zaco_console_debug_f64", Arity: 1},
	"zaco_console_debug_bool":   {Name: "zaco_console_debug_bool", Arity: 1},

	// Math (16 functions, 1-1 with Math.*)
	"zaco_math_floor":  {Name: "zaco_math_floor", Arity: 1},
	"zaco_math_ceil":   {Name: "zaco_math_ceil", Arity: 1},
	"zaco_math_round":  {Name: "zaco_math_round", Arity: 1},
	"zaco_math_trunc":  {Name: "zaco_math_trunc", Arity: 1},
	"zaco_math_abs":    {Name: "zaco_math_abs", Arity: 1},
	"zaco_math_sqrt":   {Name: "zaco_math_sqrt", Arity: 1},
	"zaco_math_pow":    {Name: "zaco_math_pow", Arity: 2},
	"zaco_math_min":    {Name: "zaco_math_min", Arity: 2, Variadic: true},
	"zaco_math_max":    {Name: "zaco_math_max", Arity: 2, Variadic: true},
	"zaco_math_random": {Name: "zaco_math_random", Arity: 0},
	"zaco_math_sin":    {Name: "zaco_math_sin", Arity: 1},
	"zaco_math_cos":    {Name: "zaco_math_cos", Arity: 1},
	"zaco_math_tan":    {Name: "zaco_math_tan", Arity: 1},
	"zaco_math_log":    {Name: "zaco_math_log", Arity: 1},
	"zaco_math_log2":   {Name: "zaco_math_log2", Arity: 1},
	"zaco_math_exp":    {Name: "zaco_math_exp", Arity: 1},

	// JSON
	"zaco_json_parse":     {Name: "zaco_json_parse", Arity: 1},
	"zaco_json_stringify": {Name: "zaco_json_stringify", Arity: 1},

	// Process / OS / path / fs
	"zaco_process_exit":  {Name: "zaco_process_exit", Arity: 1},
	"zaco_process_argv":  {Name: "zaco_process_argv", Arity: 0},
	"zaco_os_env":        {Name: "zaco_os_env", Arity: 1},
	"zaco_path_join":     {Name: "zaco_path_join", Arity: 2, Variadic: true},
	"zaco_fs_read_file":  {Name: "zaco_fs_read_file", Arity: 1},
	"zaco_fs_write_file": {Name: "zaco_fs_write_file", Arity: 2},

	// Async
	"zaco_runtime_init":     {Name: "zaco_runtime_init", Arity: 0},
	"zaco_runtime_shutdown": {Name: "zaco_runtime_shutdown", Arity: 0},
	"zaco_promise_new":      {Name: "zaco_promise_new", Arity: 0},
	"zaco_promise_resolve":  {Name: "zaco_promise_resolve", Arity: 2},
	"zaco_promise_reject":   {Name: "zaco_promise_reject", Arity: 2},
	"zaco_async_block_on":   {Name: "zaco_async_block_on", Arity: 1},
	"zaco_async_spawn":      {Name: "zaco_async_spawn", Arity: 1},

	// Exceptions / globals
	"zaco_try_push":      {Name: "zaco_try_push", Arity: 0},
	"zaco_try_pop":       {Name: "zaco_try_pop", Arity: 0},
	"zaco_throw":         {Name: "zaco_throw", Arity: 1},
	"zaco_get_error":     {Name: "zaco_get_error", Arity: 0},
	"zaco_clear_error":    {Name: "zaco_clear_error", Arity: 0},
	"zaco_parse_int":     {Name: "zaco_parse_int", Arity: 1},
	"zaco_parse_float":   {Name: "zaco_parse_float", Arity: 1},
	"zaco_is_nan":        {Name: "zaco_is_nan", Arity: 1},
	"zaco_is_finite":     {Name: "zaco_is_finite", Arity: 1},
	"zaco_set_timeout":   {Name: "zaco_set_timeout", Arity: 2},
	"zaco_set_interval":  {Name: "zaco_set_interval", Arity: 2},
	"zaco_clear_timeout": {Name: "zaco_clear_timeout", Arity: 1},
	"zaco_clear_interval": {Name: "zaco_clear_interval", Arity: 1},
}

// MaxTryNesting is the fixed setjmp/longjmp stack depth backends must
// provide for nested try/catch.
const MaxTryNesting = 64
