package stdlib

// table lists the recognized vocabulary per header. Order is irrelevant to
// lookups; it only fixes the iteration order used to build the index.
var table = []struct {
	header  string
	symbols string
}{
	{"algorithm", `
		all_of any_of none_of for_each find find_if find_if_not find_end find_first_of
		adjacent_find count count_if mismatch equal is_permutation search search_n copy
		copy_n copy_if copy_backward move move_backward swap swap_ranges iter_swap transform
		replace replace_if replace_copy replace_copy_if fill fill_n generate generate_n
		remove remove_if remove_copy remove_copy_if unique unique_copy reverse reverse_copy
		rotate rotate_copy random_shuffle shuffle is_partitioned partition stable_partition
		partition_copy partition_point sort stable_sort partial_sort partial_sort_copy
		is_sorted is_sorted_until nth_element lower_bound upper_bound equal_range
		binary_search merge inplace_merge includes set_union set_intersection set_difference
		set_symmetric_difference push_heap pop_heap make_heap sort_heap is_heap
		is_heap_until min max minmax min_element max_element minmax_element
		lexicographical_compare next_permutation prev_permutation
	`},
	{"array", "array"},
	{"bitset", "bitset"},
	{"cassert", "assert"},
	{"cctype", `
		isalnum isalpha isblank iscntrl isdigit isgraph islower isprint ispunct isspace
		isupper isxdigit tolower toupper
	`},
	{"cfloat", `
		FLT_RADIX FLT_MANT_DIG DBL_MANT_DIG LDBL_MANT_DIG FLT_DIG DBL_DIG LDBL_DIG
		FLT_MIN_EXP DBL_MIN_EXP LDBL_MIN_EXP FLT_MAX_EXP DBL_MAX_EXP LDBL_MAX_EXP FLT_MAX
		DBL_MAX LDBL_MAX FLT_EPSILON DBL_EPSILON LDBL_EPSILON FLT_MIN DBL_MIN LDBL_MIN
		FLT_ROUNDS FLT_EVAL_METHOD DECIMAL_DIG
	`},
	{"climits", `
		CHAR_BIT SCHAR_MIN SCHAR_MAX UCHAR_MAX CHAR_MIN CHAR_MAX MB_LEN_MAX SHRT_MIN
		SHRT_MAX USHRT_MAX INT_MIN INT_MAX UINT_MAX LONG_MIN LONG_MAX ULONG_MAX LLONG_MIN
		LLONG_MAX ULLONG_MAX
	`},
	{"cmath", `
		cos sin tan acos asin atan atan2 cosh sinh tanh acosh asinh atanh exp frexp ldexp
		log log10 modf exp2 expm1 ilogb log1p log2 logb scalbn scalbln pow sqrt cbrt hypot
		erf erfc tgamma lgamma ceil floor fmod trunc round lround llround rint lrint llrint
		nearbyint remainder remquo copysign nan nextafter nexttoward fdim fmax fmin fabs fma
		fpclassify isfinite isinf isnan isnormal signbit isgreater isgreaterequal isless
		islessequal islessgreater isunordered math_errhandling INFINITY NAN HUGE_VAL
		HUGE_VALF HUGE_VALL MATH_ERRNO MATH_ERREXCEPT FP_FAST_FMA FP_FAST_FMAF FP_FAST_FMAL
		FP_INFINITE FP_NAN FP_NORMAL FP_SUBNORMAL FP_ZERO FP_ILOGB0 FP_ILOGBNAN double_t
		float_t
	`},
	{"complex", "complex"},
	{"csetjmp", "longjmp setjmp jmp_buf"},
	{"cstdio", `
		rename tmpfile tmpnam fclose fflush fopen freopen setbuf setvbuf fprintf fscanf
		printf scanf sprintf sscanf vfprintf vprintf vsprintf fgetc fgets fputc fputs getc
		getchar gets putc putchar puts ungetc fread fwrite fgetpos fseek fsetpos ftell
		rewind clearerr feof ferror perror BUFSIZ EOF FILENAME_MAX FOPEN_MAX L_tmpnam
		TMP_MAX _IOFBF _IOLBF _IONBF SEEK_CUR SEEK_END SEEK_SET FILE fpos_t
	`},
	{"cstdlib", `
		atof atoi atol atoll strtod strtof strtol strtold strtoll strtoul strtoull rand
		srand calloc free malloc realloc abort atexit exit getenv system bsearch qsort abs
		div labs ldiv llabs lldiv mblen mbtowc wctomb mbstowcs wcstombs EXIT_FAILURE
		EXIT_SUCCESS MB_CUR_MAX NULL RAND_MAX div_t ldiv_t lldiv_t size_t
	`},
	{"cstring", `
		memcpy memmove strcpy strncpy strcat strncat memcmp strcmp strcoll strncmp strxfrm
		memchr strchr strcspn strpbrk strrchr strspn strstr strtok memset strerror strlen
	`},
	{"ctime", `
		clock difftime mktime time asctime ctime gmtime localtime strftime CLOCKS_PER_SEC
		clock_t time_t tm
	`},
	{"deque", "deque"},
	{"exception", `
		exception bad_exception nested_exception exception_ptr terminate_handler
		unexpected_handler terminate get_terminate set_terminate unexpected get_unexpected
		set_unexpected uncaught_exception current_exception rethrow_exception
		make_exception_ptr throw_with_nested rethrow_if_nested
	`},
	{"forward_list", "forward_list"},
	{"fstream", "ifstream ofstream fstream filebuf"},
	{"functional", `
		unary_function binary_function plus minus multiplies divides modulus negate equal_to
		not_equal_to greater less greater_equal less_equal logical_and logical_or
		logical_not not1 not2 bind1st bind2nd ptr_fun mem_fun mem_fun_ref unary_negate
		binary_negate binder1st binder2nd pointer_to_unary_function
		pointer_to_binary_function mem_fun_t mem_fun1_t const_mem_fun_t const_mem_fun1_t
		mem_fun_ref_t mem_fun1_ref_t const_mem_fun_ref_t const_mem_fun1_ref_t bind cref
		mem_fn ref function reference_wrapper bit_and bit_or bit_xor bad_function_call hash
		is_bind_expression is_placeholder placeholders
	`},
	{"initializer_list", "initializer_list"},
	{"iomanip", `
		setiosflags resetiosflags setbase setfill setprecision setw get_money put_money
		get_time put_time
	`},
	{"iostream", "ios_base ios istream ostream iostream streambuf cin cout cerr clog"},
	{"iterator", `
		advance distance back_inserter front_inserter inserter iterator iterator_traits
		reverse_iterator back_insert_iterator front_insert_iterator insert_iterator
		istream_iterator ostream_iterator istreambuf_iterator ostreambuf_iterator
		input_iterator_tag output_iterator_tag forward_iterator_tag
		bidirectional_iterator_tag random_access_iterator_tag
	`},
	{"limits", "numeric_limits float_round_style float_denorm_style"},
	{"list", "list"},
	{"map", "map multimap"},
	{"memory", `
		allocator allocator_arg allocator_arg_t allocator_traits auto_ptr auto_ptr_ref
		shared_ptr weak_ptr unique_ptr default_delete make_shared allocate_shared
		static_pointer_cast dynamic_pointer_cast const_pointer_cast get_deleter owner_less
		enable_shared_from_this raw_storage_iterator get_temporary_buffer
		return_temporary_buffer uninitialized_copy uninitialized_copy_n uninitialized_fill
		uninitialized_fill_n pointer_traits pointer_safety declare_reachable
		undeclare_reachable declare_no_pointers undeclare_no_pointers get_pointer_safety
		align addressof
	`},
	{"numeric", "accumulate adjacent_difference inner_product partial_sum iota"},
	{"queue", "queue priority_queue"},
	{"set", "set multiset"},
	{"sstream", "istringstream ostringstream stringstream stringbuf"},
	{"stack", "stack"},
	{"stdexcept", `
		logic_error domain_error invalid_argument length_error out_of_range runtime_error
		range_error overflow_error underflow_error
	`},
	{"string", `
		basic_string char_traits string u16string u32string wstring stoi stol stoul stoll
		stoull stof stod stold to_string to_wstring
	`},
	{"tuple", "tuple tuple_size tuple_element make_tuple forward_as_tuple tuple_cat"},
	{"typeinfo", "type_info bad_cast bad_typeid"},
	{"unordered_map", "unordered_map unordered_multimap"},
	{"unordered_set", "unordered_set unordered_multiset"},
	{"utility", `
		make_pair forward move_if_noexcept declval pair piecewise_construct_t
		piecewise_construct rel_ops
	`},
	{"valarray", "valarray slice gslice slice_array gslice_array mask_array indirect_array"},
	{"vector", "vector"},
}
