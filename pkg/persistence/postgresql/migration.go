package postgresql

// migrations returns the versioned schema for the engine's own tables. The
// surrounding platform owns every other table.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS applications (
				id BIGSERIAL PRIMARY KEY,
				customer_id BIGINT NOT NULL,
				status_code INTEGER NOT NULL,
				workflow_variant TEXT NOT NULL,
				product_line_code INTEGER NOT NULL DEFAULT 0,
				partner_name TEXT NOT NULL DEFAULT '',
				loan_id BIGINT,
				full_name TEXT NOT NULL DEFAULT '',
				email TEXT NOT NULL DEFAULT '',
				phone_number TEXT NOT NULL DEFAULT '',
				bank_name TEXT NOT NULL DEFAULT '',
				bank_account_number TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS loans (
				id BIGSERIAL PRIMARY KEY,
				application_id BIGINT NOT NULL UNIQUE,
				customer_id BIGINT NOT NULL,
				lender_id BIGINT,
				amount BIGINT NOT NULL DEFAULT 0,
				duration INTEGER NOT NULL DEFAULT 0,
				status TEXT NOT NULL DEFAULT 'INACTIVE',
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS disbursements (
				id BIGSERIAL PRIMARY KEY,
				loan_id BIGINT NOT NULL UNIQUE,
				amount BIGINT NOT NULL DEFAULT 0,
				disburse_status TEXT NOT NULL DEFAULT 'PENDING',
				external_id TEXT NOT NULL DEFAULT '',
				retry_count INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS payment_installments (
					id BIGSERIAL PRIMARY KEY,
					loan_id BIGINT NOT NULL,
					sequence INTEGER NOT NULL,
					amount BIGINT NOT NULL DEFAULT 0,
					due_date TIMESTAMP WITH TIME ZONE NOT NULL,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					UNIQUE (loan_id, sequence)
				);

				CREATE TABLE IF NOT EXISTS offers (
				id BIGSERIAL PRIMARY KEY,
				application_id BIGINT NOT NULL,
				amount BIGINT NOT NULL DEFAULT 0,
				duration INTEGER NOT NULL DEFAULT 0,
				is_accepted BOOLEAN NOT NULL DEFAULT FALSE,
				is_approved BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS credit_scores (
				id BIGSERIAL PRIMARY KEY,
				application_id BIGINT NOT NULL UNIQUE,
				score TEXT NOT NULL DEFAULT '',
				matches_false_reject_experiment BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS lender_signatures (
				id BIGSERIAL PRIMARY KEY,
				loan_id BIGINT NOT NULL UNIQUE,
				is_signed BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS autodialer_queues (
				id BIGSERIAL PRIMARY KEY,
				application_id BIGINT NOT NULL,
				status_code INTEGER NOT NULL,
				is_agent_called BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				UNIQUE (application_id, status_code)
			);

			CREATE TABLE IF NOT EXISTS workflow_failure_actions (
				id TEXT PRIMARY KEY,
				application_id BIGINT NOT NULL,
				action_name TEXT NOT NULL,
				action_type TEXT NOT NULL,
				arguments JSONB NOT NULL,
				error_message TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_failure_actions_application
				ON workflow_failure_actions (application_id);

			CREATE TABLE IF NOT EXISTS application_status_histories (
				id BIGSERIAL PRIMARY KEY,
				application_id BIGINT NOT NULL,
				old_status_code INTEGER NOT NULL,
				new_status_code INTEGER NOT NULL,
				change_reason TEXT NOT NULL DEFAULT '',
				note TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_status_histories_application
				ON application_status_histories (application_id);
		`,
	}
}
